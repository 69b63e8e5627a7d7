package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tally/internal/config"
	"tally/internal/dates"
	"tally/internal/listview"
	"tally/internal/logging"
	"tally/internal/phrase"
	"tally/internal/storage"
	"tally/internal/todo"
)

const promptTextLength = 40

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type dialogKind int

const (
	dialogDelete dialogKind = iota
	dialogCompleteAll
	dialogClearCompleted
	dialogCorrupted
)

type dialog struct {
	kind   dialogKind
	todoID int
	prompt string
}

type tickMsg time.Time

type Model struct {
	store      *todo.Store
	repo       *storage.Repository
	cfg        config.Config
	logger     *log.Logger
	now        func() time.Time
	view       []todo.Todo
	counts     listview.Counts
	filter     listview.Filter
	sort       listview.Sort
	cursor     int
	mode       mode
	editID     int
	input      textinput.Model
	status     string
	dialog     *dialog
	corrupted  []string
	renderedAt time.Time
	width      int
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New builds the list screen over an already hydrated store. report carries
// the outcome of hydration so restored and corrupted records can be
// surfaced on the first frame.
func New(store *todo.Store, repo *storage.Repository, cfg config.Config, report storage.Report, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = todo.MaxTextLength
	ti.Width = 40

	m := Model{
		store:  store,
		repo:   repo,
		cfg:    cfg,
		logger: logging.Discard(),
		now:    time.Now,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to delete.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	for _, opt := range opts {
		opt(&m)
	}

	var err error
	if m.filter, err = listview.ParseFilter(cfg.DefaultFilter); err != nil {
		m.logger.Warn("ignoring default_filter", "err", err)
		m.filter = listview.FilterAll
	}
	if m.sort, err = listview.ParseSort(cfg.DefaultSort); err != nil {
		m.logger.Warn("ignoring default_sort", "err", err)
		m.sort = listview.SortDefault
	}

	if report.Restored > 0 {
		m.status = fmt.Sprintf("%s restored from storage.", plural(report.Restored, "todo was", "todos were"))
	}
	if len(report.CorruptedKeys) > 0 {
		m.corrupted = append([]string(nil), report.CorruptedKeys...)
		m.dialog = &dialog{
			kind: dialogCorrupted,
			prompt: fmt.Sprintf("The following saved todos were corrupted and could not be loaded: %s. Delete them? y/n",
				strings.Join(m.corrupted, ", ")),
		}
	}
	m.refresh()
	return m
}

func Run(store *todo.Store, repo *storage.Repository, cfg config.Config, report storage.Report, opts ...Option) error {
	m := New(store, repo, cfg, report, opts...)
	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick(m.cfg.Refresh())
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.renderedAt = time.Time(msg)
		return m, tick(m.cfg.Refresh())
	case tea.KeyMsg:
		if m.dialog != nil {
			return m.updateDialog(msg.String())
		}
		if m.mode == modeAdd || m.mode == modeEdit {
			return m.updateInputMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.view) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.view))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.view))
		}
	case k.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Add mode: type the todo and press Enter"
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No todos to edit"
			return m, nil
		}
		m.mode = modeEdit
		m.editID = t.ID
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Edit mode: change the text and press Enter"
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.Dispatch(todo.UpdateCompletion{ID: t.ID, Completed: !t.IsCompleted})
		m.refresh()
		if t.IsCompleted {
			m.status = "Marked as incomplete"
		} else {
			m.status = "Marked as completed"
		}
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.dialog = &dialog{
			kind:   dialogDelete,
			todoID: t.ID,
			prompt: fmt.Sprintf("Delete %q? y/n", phrase.Shorten(t.Text, promptTextLength)),
		}
	case k.CompleteAll:
		if m.counts.Incomplete == 0 {
			m.status = "Nothing left to complete"
			return m, nil
		}
		m.dialog = &dialog{
			kind:   dialogCompleteAll,
			prompt: fmt.Sprintf("You are about to mark %s as completed. Proceed? y/n", plural(m.counts.Incomplete, "incomplete todo", "incomplete todos")),
		}
	case k.ClearCompleted:
		if m.counts.Completed == 0 {
			m.status = "No completed todos to clear"
			return m, nil
		}
		m.dialog = &dialog{
			kind:   dialogClearCompleted,
			prompt: fmt.Sprintf("You are about to permanently delete %s. This cannot be undone. Proceed? y/n", plural(m.counts.Completed, "completed todo", "completed todos")),
		}
	case k.CycleFilter:
		m.filter = m.filter.Next()
		m.refresh()
		m.status = "Filter: " + m.filter.Label()
	case k.CycleSort:
		m.sort = m.sort.Next()
		m.refresh()
		m.status = "Sort: " + m.sort.Label()
	case k.Detail:
		t, ok := m.selected()
		if !ok {
			m.status = "No todos"
			return m, nil
		}
		m.status = m.detail(t)
	}
	return m, nil
}

func (m Model) updateInputMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.leaveInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Todo text cannot be empty"
			return m, nil
		}
		if n := utf8.RuneCountInString(text); n > todo.MaxTextLength {
			m.status = fmt.Sprintf("Todo text is too long (over by %d characters)", n-todo.MaxTextLength)
			return m, nil
		}
		if m.mode == modeAdd {
			state := m.store.Dispatch(todo.AddTodo{Text: text})
			m.refresh()
			m.focusID(state.NextID - 1)
			m.status = "Added todo"
		} else {
			m.submitEdit(text)
		}
		m.leaveInput()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) submitEdit(text string) {
	current, ok := m.store.State().Find(m.editID)
	switch {
	case !ok:
		m.status = "That todo no longer exists"
	case current.Text == text:
		m.status = "No changes"
	default:
		m.store.Dispatch(todo.UpdateText{ID: m.editID, Text: text})
		m.refresh()
		m.focusID(m.editID)
		m.status = "Updated todo"
	}
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.editID = 0
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) updateDialog(key string) (tea.Model, tea.Cmd) {
	d := m.dialog
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.dialog = nil
		if d.kind == dialogCorrupted {
			m.status = "Left corrupted todos as is"
		} else {
			m.status = "Cancelled"
		}
		return m, nil
	case "y", "Y", m.cfg.Keys.Confirm:
		m.dialog = nil
		switch d.kind {
		case dialogDelete:
			m.store.Dispatch(todo.DeleteTodo{ID: d.todoID})
			m.status = "Deleted todo"
		case dialogCompleteAll:
			m.store.Dispatch(todo.CompleteAll{})
			m.status = "Completed all todos"
		case dialogClearCompleted:
			m.store.Dispatch(todo.ClearCompleted{})
			m.status = "Cleared completed todos"
		case dialogCorrupted:
			if err := m.repo.DeleteKeys(m.corrupted); err != nil {
				m.logger.Error("delete corrupted todos", "keys", m.corrupted, "err", err)
				m.status = fmt.Sprintf("delete failed: %v", err)
				return m, nil
			}
			m.status = fmt.Sprintf("Deleted %s", plural(len(m.corrupted), "corrupted todo", "corrupted todos"))
			m.corrupted = nil
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// refresh re-projects the store state; it runs after every dispatch and
// whenever the filter or sort changes.
func (m *Model) refresh() {
	state := m.store.State()
	m.view = listview.Project(state.Todos, m.filter, m.sort)
	m.counts = listview.Summarize(state.Todos)
	m.cursor = clampCursor(m.cursor, len(m.view))
	m.renderedAt = m.now()
}

func (m *Model) focusID(id int) {
	for i, t := range m.view {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (todo.Todo, bool) {
	if len(m.view) == 0 {
		return todo.Todo{}, false
	}
	return m.view[clampCursor(m.cursor, len(m.view))], true
}

func (m Model) detail(t todo.Todo) string {
	parts := []string{fmt.Sprintf("Todo #%d", t.ID), humanDone(t.IsCompleted)}
	if t.CompletedAt != nil {
		parts = append(parts, "completed "+dates.Tooltip(*t.CompletedAt, m.renderedAt))
	}
	if t.LastUpdatedAt != nil {
		parts = append(parts, "updated "+dates.Tooltip(*t.LastUpdatedAt, m.renderedAt))
	}
	parts = append(parts, "created "+dates.Tooltip(t.CreatedAt, m.renderedAt))
	return strings.Join(parts, " • ")
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "completed"
	}
	return "pending"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
