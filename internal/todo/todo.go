// Package todo holds the todo list state and the reducer that is the only
// way to change it.
package todo

import (
	"slices"
	"time"
)

// MaxTextLength is enforced by the input boundaries (UI and CLI), not by
// the reducer.
const MaxTextLength = 255

type Todo struct {
	ID            int
	Text          string
	IsCompleted   bool
	CreatedAt     time.Time
	LastUpdatedAt *time.Time
	CompletedAt   *time.Time
}

type State struct {
	// NextID is always greater than every id ever assigned.
	NextID int
	Todos  []Todo
}

func InitialState() State {
	return State{NextID: 1}
}

func (s State) Clone() State {
	return State{NextID: s.NextID, Todos: slices.Clone(s.Todos)}
}

func (s State) Find(id int) (Todo, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Todo{}, false
	}
	return s.Todos[i], true
}

func (s State) indexOf(id int) int {
	return slices.IndexFunc(s.Todos, func(t Todo) bool { return t.ID == id })
}

func timePtr(t time.Time) *time.Time {
	return &t
}
