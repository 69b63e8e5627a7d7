package storage

import "tally/internal/todo"

type Report struct {
	Restored      int
	CorruptedKeys []string
}

// Hydrate loads every stored record into store. Corrupted records are left
// in place and reported so the caller can offer to delete them.
func Hydrate(store *todo.Store, repo *Repository) (Report, error) {
	result, err := repo.LoadAll()
	if err != nil {
		return Report{}, err
	}
	if result == nil {
		return Report{}, nil
	}
	if len(result.Todos) > 0 {
		store.Dispatch(todo.Load{Todos: result.Todos})
	}
	return Report{Restored: len(result.Todos), CorruptedKeys: result.CorruptedKeys}, nil
}
