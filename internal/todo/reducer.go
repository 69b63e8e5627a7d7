package todo

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// Change lists the records a transition touched, so the caller can mirror
// exactly those to storage.
type Change struct {
	Saved   []Todo
	Deleted []int
}

func (c Change) Empty() bool {
	return len(c.Saved) == 0 && len(c.Deleted) == 0
}

// Reduce computes the state that follows action. The input state is never
// modified: every transition that changes something returns a fresh slice.
// Lookups that miss and unknown actions are logged and return state as is.
func Reduce(state State, action Action, now time.Time, logger *log.Logger) (State, Change) {
	if logger == nil {
		logger = discard
	}

	switch a := action.(type) {
	case AddTodo:
		t := Todo{
			ID:        state.NextID,
			Text:      a.Text,
			CreatedAt: now,
		}
		next := State{
			NextID: state.NextID + 1,
			Todos:  append(slices.Clip(state.Todos), t),
		}
		return next, Change{Saved: []Todo{t}}

	case UpdateText:
		i := state.indexOf(a.ID)
		if i < 0 {
			logger.Warn("could not find todo to update text content", "id", a.ID)
			return state, Change{}
		}
		t := state.Todos[i]
		t.Text = a.Text
		t.LastUpdatedAt = timePtr(now)
		return state.replace(i, t), Change{Saved: []Todo{t}}

	case UpdateCompletion:
		i := state.indexOf(a.ID)
		if i < 0 {
			logger.Warn("could not find todo to update completion status", "id", a.ID)
			return state, Change{}
		}
		t := state.Todos[i]
		t.IsCompleted = a.Completed
		t.CompletedAt = nil
		if a.Completed {
			t.CompletedAt = timePtr(now)
		}
		return state.replace(i, t), Change{Saved: []Todo{t}}

	case DeleteTodo:
		i := state.indexOf(a.ID)
		if i < 0 {
			logger.Debug("todo to delete is already gone", "id", a.ID)
			return state, Change{}
		}
		next := State{NextID: state.NextID, Todos: slices.Delete(slices.Clone(state.Todos), i, i+1)}
		return next, Change{Deleted: []int{a.ID}}

	case CompleteAll:
		var change Change
		todos := make([]Todo, len(state.Todos))
		for i, t := range state.Todos {
			if !t.IsCompleted {
				t.IsCompleted = true
				t.CompletedAt = timePtr(now)
				change.Saved = append(change.Saved, t)
			}
			todos[i] = t
		}
		if change.Empty() {
			return state, change
		}
		return State{NextID: state.NextID, Todos: todos}, change

	case ClearCompleted:
		var change Change
		todos := make([]Todo, 0, len(state.Todos))
		for _, t := range state.Todos {
			if t.IsCompleted {
				change.Deleted = append(change.Deleted, t.ID)
				continue
			}
			todos = append(todos, t)
		}
		if change.Empty() {
			return state, change
		}
		return State{NextID: state.NextID, Todos: todos}, change

	case Load:
		highest := 0
		for _, t := range a.Todos {
			highest = max(highest, t.ID)
		}
		return State{NextID: highest + 1, Todos: slices.Clone(a.Todos)}, Change{}

	default:
		logger.Error("unknown action type", "action", describe(action))
		return state, Change{}
	}
}

func (s State) replace(i int, t Todo) State {
	todos := slices.Clone(s.Todos)
	todos[i] = t
	return State{NextID: s.NextID, Todos: todos}
}

func describe(action Action) string {
	if action == nil {
		return "<nil>"
	}
	return string(action.Type())
}
