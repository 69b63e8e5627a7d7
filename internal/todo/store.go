package todo

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var discard = log.New(io.Discard)

// Repository receives the records a dispatch touched. Writes are fire and
// forget: a failed write is logged and the in-memory state stands.
type Repository interface {
	Put(t Todo) error
	Delete(id int) error
}

// Store owns the todo state. Dispatch is the only way to change it.
type Store struct {
	mu        sync.Mutex
	state     State
	repo      Repository
	now       func() time.Time
	logger    *log.Logger
	listeners map[int]func(State)
	nextSub   int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState seeds the store, mainly for tests; production code starts empty
// and dispatches Load.
func WithState(state State) Option {
	return func(s *Store) { s.state = state.Clone() }
}

// NewStore returns an empty store. repo may be nil, in which case nothing is
// persisted.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		state:     InitialState(),
		repo:      repo,
		now:       time.Now,
		logger:    discard,
		listeners: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	now := s.now().UTC().Truncate(time.Millisecond)
	next, change := Reduce(s.state, action, now, s.logger)
	s.state = next
	s.sync(change)
	snapshot := s.state.Clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return snapshot
}

// Subscribe registers fn to run after every dispatch. The returned func
// removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) sync(change Change) {
	if s.repo == nil {
		return
	}
	for _, t := range change.Saved {
		if err := s.repo.Put(t); err != nil {
			s.logger.Error("persist todo", "id", t.ID, "err", err)
		}
	}
	for _, id := range change.Deleted {
		if err := s.repo.Delete(id); err != nil {
			s.logger.Error("remove persisted todo", "id", id, "err", err)
		}
	}
}
