package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tally/internal/kv"
	"tally/internal/todo"
)

// KeyPrefix namespaces todo records inside the byte store; a record lives
// under KeyPrefix + id.
const KeyPrefix = "todo_"

const isoMillis = "2006-01-02T15:04:05.000Z"

var ErrCorruptRecord = errors.New("corrupt todo record")

//go:embed todo.schema.json
var schemaJSON string

var recordSchema = jsonschema.MustCompileString("todo.schema.json", schemaJSON)

type record struct {
	ID            int     `json:"id"`
	Text          string  `json:"text"`
	IsCompleted   bool    `json:"isCompleted"`
	CreatedAt     *string `json:"createdAt"`
	LastUpdatedAt *string `json:"lastUpdatedAt"`
	CompletedAt   *string `json:"completedAt"`
}

// LoadResult is what a full scan found. Todos is nil when no record was
// valid; CorruptedKeys lists every key whose value failed to decode or
// validate.
type LoadResult struct {
	Todos         []todo.Todo
	CorruptedKeys []string
}

type Repository struct {
	store  kv.Store
	logger *log.Logger
}

var _ todo.Repository = (*Repository)(nil)

func NewRepository(store kv.Store, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Repository{store: store, logger: logger}
}

func Key(id int) string {
	return KeyPrefix + strconv.Itoa(id)
}

func (r *Repository) Put(t todo.Todo) error {
	data, err := encode(t)
	if err != nil {
		return err
	}
	return r.store.Set(Key(t.ID), data)
}

func (r *Repository) Delete(id int) error {
	return r.store.Remove(Key(id))
}

func (r *Repository) Get(id int) (todo.Todo, bool, error) {
	key := Key(id)
	data, ok, err := r.store.Get(key)
	if err != nil || !ok {
		return todo.Todo{}, false, err
	}
	t, err := decode(key, data)
	if err != nil {
		return todo.Todo{}, false, err
	}
	return t, true, nil
}

// LoadAll scans every key under KeyPrefix. It returns nil when the scan
// found nothing at all; otherwise valid records are sorted newest id first.
func (r *Repository) LoadAll() (*LoadResult, error) {
	keys, err := r.store.Keys(KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	if len(keys) == 0 {
		r.logger.Info("no stored todos found")
		return nil, nil
	}

	result := &LoadResult{}
	for _, key := range keys {
		data, ok, err := r.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		t, err := decode(key, data)
		if err != nil {
			r.logger.Error("skipping stored todo", "key", key, "err", err)
			result.CorruptedKeys = append(result.CorruptedKeys, key)
			continue
		}
		result.Todos = append(result.Todos, t)
	}
	sort.SliceStable(result.Todos, func(i, j int) bool {
		return result.Todos[i].ID > result.Todos[j].ID
	})
	if len(result.Todos) == 0 && len(result.CorruptedKeys) == 0 {
		return nil, nil
	}
	return result, nil
}

// DeleteKeys removes raw keys, typically the CorruptedKeys of a LoadResult.
func (r *Repository) DeleteKeys(keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := r.store.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func encode(t todo.Todo) ([]byte, error) {
	rec := record{
		ID:            t.ID,
		Text:          t.Text,
		IsCompleted:   t.IsCompleted,
		LastUpdatedAt: formatTime(t.LastUpdatedAt),
		CompletedAt:   formatTime(t.CompletedAt),
	}
	if !t.CreatedAt.IsZero() {
		rec.CreatedAt = formatTime(&t.CreatedAt)
	}
	return json.Marshal(rec)
}

func decode(key string, data []byte) (todo.Todo, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	if err := recordSchema.Validate(doc); err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	if Key(rec.ID) != key {
		return todo.Todo{}, fmt.Errorf("%w: %s holds id %d", ErrCorruptRecord, key, rec.ID)
	}

	t := todo.Todo{
		ID:          rec.ID,
		Text:        rec.Text,
		IsCompleted: rec.IsCompleted,
	}
	created, err := parseTime(rec.CreatedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: createdAt: %v", ErrCorruptRecord, key, err)
	}
	if created != nil {
		t.CreatedAt = *created
	}
	if t.LastUpdatedAt, err = parseTime(rec.LastUpdatedAt); err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: lastUpdatedAt: %v", ErrCorruptRecord, key, err)
	}
	if t.CompletedAt, err = parseTime(rec.CompletedAt); err != nil {
		return todo.Todo{}, fmt.Errorf("%w: %s: completedAt: %v", ErrCorruptRecord, key, err)
	}
	return t, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(isoMillis)
	return &s
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
