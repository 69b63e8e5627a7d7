package todo

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var t0 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func reduceAll(t *testing.T, state State, actions ...Action) State {
	t.Helper()
	for i, a := range actions {
		state, _ = Reduce(state, a, t0.Add(time.Duration(i)*time.Minute), nil)
		assertCompletedAtInvariant(t, state)
	}
	return state
}

func assertCompletedAtInvariant(t *testing.T, s State) {
	t.Helper()
	for _, td := range s.Todos {
		if td.IsCompleted != (td.CompletedAt != nil) {
			t.Fatalf("todo %d: isCompleted=%v but completedAt=%v", td.ID, td.IsCompleted, td.CompletedAt)
		}
	}
}

func TestReduceAddTodo(t *testing.T) {
	state, change := Reduce(InitialState(), AddTodo{Text: "buy milk"}, t0, nil)

	if state.NextID != 2 {
		t.Fatalf("expected NextID 2, got %d", state.NextID)
	}
	want := Todo{ID: 1, Text: "buy milk", CreatedAt: t0}
	if len(state.Todos) != 1 || !reflect.DeepEqual(state.Todos[0], want) {
		t.Fatalf("unexpected todos: %+v", state.Todos)
	}
	if len(change.Saved) != 1 || change.Saved[0].ID != 1 || len(change.Deleted) != 0 {
		t.Fatalf("expected exactly the new todo to be saved, got %+v", change)
	}
}

func TestReduceAssignsMonotonicIDs(t *testing.T) {
	state := InitialState()
	seen := 0
	for i := 0; i < 20; i++ {
		var change Change
		state, change = Reduce(state, AddTodo{Text: "task"}, t0, nil)
		id := change.Saved[0].ID
		if id <= seen {
			t.Fatalf("id %d not greater than previous %d", id, seen)
		}
		seen = id
		if i%3 == 0 {
			state, _ = Reduce(state, DeleteTodo{ID: id}, t0, nil)
		}
		for _, td := range state.Todos {
			if state.NextID <= td.ID {
				t.Fatalf("NextID %d not greater than id %d", state.NextID, td.ID)
			}
		}
	}
}

func TestReduceUpdateText(t *testing.T) {
	before := reduceAll(t, InitialState(), AddTodo{Text: "draft"})
	later := t0.Add(time.Hour)

	after, change := Reduce(before, UpdateText{ID: 1, Text: "final"}, later, nil)

	got := after.Todos[0]
	if got.Text != "final" || got.LastUpdatedAt == nil || !got.LastUpdatedAt.Equal(later) {
		t.Fatalf("unexpected updated todo %+v", got)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Fatalf("createdAt changed to %v", got.CreatedAt)
	}
	if before.Todos[0].Text != "draft" || before.Todos[0].LastUpdatedAt != nil {
		t.Fatalf("input state was mutated: %+v", before.Todos[0])
	}
	if len(change.Saved) != 1 || change.Saved[0].Text != "final" {
		t.Fatalf("unexpected change %+v", change)
	}
}

func TestReduceMissingIDIsNoop(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	state := reduceAll(t, InitialState(), AddTodo{Text: "a"}, AddTodo{Text: "b"})

	for _, action := range []Action{
		UpdateText{ID: 42, Text: "x"},
		UpdateCompletion{ID: 42, Completed: true},
		DeleteTodo{ID: 42},
	} {
		next, change := Reduce(state, action, t0, logger)
		if !reflect.DeepEqual(next, state) {
			t.Fatalf("%s: expected unchanged state, got %+v", action.Type(), next)
		}
		if &next.Todos[0] != &state.Todos[0] {
			t.Fatalf("%s: expected the same todo slice back", action.Type())
		}
		if !change.Empty() {
			t.Fatalf("%s: expected no change, got %+v", action.Type(), change)
		}
	}
	if !strings.Contains(buf.String(), "could not find todo") {
		t.Fatalf("expected not-found to be logged, got %q", buf.String())
	}
}

func TestReduceCompletionToggle(t *testing.T) {
	state := reduceAll(t, InitialState(), AddTodo{Text: "a"})

	done, change := Reduce(state, UpdateCompletion{ID: 1, Completed: true}, t0, nil)
	if !done.Todos[0].IsCompleted || done.Todos[0].CompletedAt == nil {
		t.Fatalf("expected completed todo, got %+v", done.Todos[0])
	}
	if len(change.Saved) != 1 {
		t.Fatalf("expected one saved record, got %+v", change)
	}

	twice, _ := Reduce(done, UpdateCompletion{ID: 1, Completed: true}, t0, nil)
	if !reflect.DeepEqual(twice, done) {
		t.Fatalf("toggling to the same value twice changed state: %+v vs %+v", twice, done)
	}

	undone, _ := Reduce(twice, UpdateCompletion{ID: 1, Completed: false}, t0, nil)
	if undone.Todos[0].IsCompleted || undone.Todos[0].CompletedAt != nil {
		t.Fatalf("expected completedAt cleared, got %+v", undone.Todos[0])
	}
	assertCompletedAtInvariant(t, undone)
}

func TestReduceDelete(t *testing.T) {
	state := reduceAll(t, InitialState(), AddTodo{Text: "a"}, AddTodo{Text: "b"}, AddTodo{Text: "c"})

	next, change := Reduce(state, DeleteTodo{ID: 2}, t0, nil)
	if len(next.Todos) != 2 || next.Todos[0].ID != 1 || next.Todos[1].ID != 3 {
		t.Fatalf("unexpected todos after delete: %+v", next.Todos)
	}
	if len(state.Todos) != 3 || state.Todos[1].ID != 2 {
		t.Fatalf("input state was mutated: %+v", state.Todos)
	}
	if !reflect.DeepEqual(change.Deleted, []int{2}) {
		t.Fatalf("expected id 2 deleted, got %+v", change)
	}
	if next.NextID != 4 {
		t.Fatalf("NextID must not move backwards, got %d", next.NextID)
	}
}

func TestReduceCompleteAll(t *testing.T) {
	state := reduceAll(t, InitialState(),
		AddTodo{Text: "a"}, AddTodo{Text: "b"}, AddTodo{Text: "c"},
		UpdateCompletion{ID: 2, Completed: true},
	)
	firstCompletion := *state.Todos[1].CompletedAt
	later := t0.Add(24 * time.Hour)

	next, change := Reduce(state, CompleteAll{}, later, nil)
	assertCompletedAtInvariant(t, next)
	for _, td := range next.Todos {
		if !td.IsCompleted {
			t.Fatalf("todo %d left incomplete", td.ID)
		}
	}
	if !next.Todos[1].CompletedAt.Equal(firstCompletion) {
		t.Fatalf("already completed todo got a new completedAt: %v", next.Todos[1].CompletedAt)
	}
	if len(change.Saved) != 2 || change.Saved[0].ID != 1 || change.Saved[1].ID != 3 {
		t.Fatalf("expected only the two incomplete todos saved, got %+v", change.Saved)
	}
	if state.Todos[0].IsCompleted {
		t.Fatalf("input state was mutated")
	}

	again, change := Reduce(next, CompleteAll{}, later, nil)
	if !change.Empty() || !reflect.DeepEqual(again, next) {
		t.Fatalf("complete all on a finished list should be a no-op")
	}
}

func TestReduceClearCompleted(t *testing.T) {
	state := reduceAll(t, InitialState(),
		AddTodo{Text: "a"}, AddTodo{Text: "b"}, AddTodo{Text: "c"},
		UpdateCompletion{ID: 1, Completed: true},
		UpdateCompletion{ID: 3, Completed: true},
	)

	next, change := Reduce(state, ClearCompleted{}, t0, nil)
	if len(next.Todos) != 1 || next.Todos[0].ID != 2 {
		t.Fatalf("unexpected todos: %+v", next.Todos)
	}
	if !reflect.DeepEqual(change.Deleted, []int{1, 3}) {
		t.Fatalf("expected ids 1 and 3 deleted, got %+v", change.Deleted)
	}
	if next.NextID != 4 {
		t.Fatalf("expected NextID 4, got %d", next.NextID)
	}
}

func TestReduceLoadRecomputesNextID(t *testing.T) {
	loaded := []Todo{
		{ID: 5, Text: "five", CreatedAt: t0},
		{ID: 2, Text: "two", CreatedAt: t0},
	}
	state, change := Reduce(reduceAll(t, InitialState(), AddTodo{Text: "gone"}), Load{Todos: loaded}, t0, nil)
	if state.NextID != 6 {
		t.Fatalf("expected NextID 6, got %d", state.NextID)
	}
	if !reflect.DeepEqual(state.Todos, loaded) {
		t.Fatalf("expected loaded todos verbatim, got %+v", state.Todos)
	}
	if !change.Empty() {
		t.Fatalf("load must not write back, got %+v", change)
	}
	loaded[0].Text = "mutated"
	if state.Todos[0].Text != "five" {
		t.Fatalf("state shares the payload slice")
	}

	empty, _ := Reduce(state, Load{}, t0, nil)
	if empty.NextID != 1 || len(empty.Todos) != 0 {
		t.Fatalf("expected empty state with NextID 1, got %+v", empty)
	}
}

type bogusAction struct{}

func (bogusAction) Type() ActionType { return "BOGUS" }

func TestReduceUnknownActionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	state := reduceAll(t, InitialState(), AddTodo{Text: "a"})

	for _, action := range []Action{bogusAction{}, nil} {
		next, change := Reduce(state, action, t0, logger)
		if !reflect.DeepEqual(next, state) || !change.Empty() {
			t.Fatalf("unknown action changed state")
		}
	}
	out := buf.String()
	if !strings.Contains(out, "unknown action type") || !strings.Contains(out, "BOGUS") {
		t.Fatalf("expected unknown action to be logged, got %q", out)
	}
}
