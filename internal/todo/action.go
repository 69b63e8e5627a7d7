package todo

type ActionType string

const (
	ActionAddTodo          ActionType = "ADD_TODO"
	ActionUpdateText       ActionType = "UPDATE_TODO_TEXT_CONTENT"
	ActionUpdateCompletion ActionType = "UPDATE_TODO_COMPLETION_STATUS"
	ActionDeleteTodo       ActionType = "DELETE_TODO"
	ActionCompleteAll      ActionType = "COMPLETE_ALL_TODOS"
	ActionClearCompleted   ActionType = "CLEAR_COMPLETED_TODOS"
	ActionLoad             ActionType = "LOAD_USER_DATA_FROM_LOCAL_STORAGE"
)

type Action interface {
	Type() ActionType
}

// AddTodo expects Text to be trimmed and non-empty already.
type AddTodo struct {
	Text string
}

type UpdateText struct {
	ID   int
	Text string
}

type UpdateCompletion struct {
	ID        int
	Completed bool
}

type DeleteTodo struct {
	ID int
}

type CompleteAll struct{}

type ClearCompleted struct{}

// Load replaces the whole state with records read from storage.
type Load struct {
	Todos []Todo
}

func (AddTodo) Type() ActionType          { return ActionAddTodo }
func (UpdateText) Type() ActionType       { return ActionUpdateText }
func (UpdateCompletion) Type() ActionType { return ActionUpdateCompletion }
func (DeleteTodo) Type() ActionType       { return ActionDeleteTodo }
func (CompleteAll) Type() ActionType      { return ActionCompleteAll }
func (ClearCompleted) Type() ActionType   { return ActionClearCompleted }
func (Load) Type() ActionType             { return ActionLoad }
