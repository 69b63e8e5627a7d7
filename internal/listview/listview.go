// Package listview derives the displayed list from the canonical todo order.
// Nothing here modifies its input.
package listview

import (
	"fmt"
	"slices"
	"strings"

	"tally/internal/todo"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterIncomplete Filter = "incomplete"
	FilterCompleted  Filter = "completed"
)

var Filters = []Filter{FilterAll, FilterIncomplete, FilterCompleted}

type Sort string

const (
	SortDefault     Sort = "default"
	SortCreatedDesc Sort = "date-created-desc"
	SortCreatedAsc  Sort = "date-created-asc"
	SortTitleAsc    Sort = "title-asc"
)

var Sorts = []Sort{SortDefault, SortCreatedDesc, SortCreatedAsc, SortTitleAsc}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	if slices.Contains(Filters, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want one of all, incomplete, completed)", s)
}

func ParseSort(s string) (Sort, error) {
	v := Sort(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SortDefault, nil
	}
	if slices.Contains(Sorts, v) {
		return v, nil
	}
	return "", fmt.Errorf("unknown sort %q (want one of default, date-created-desc, date-created-asc, title-asc)", s)
}

func (f Filter) Label() string {
	switch f {
	case FilterIncomplete:
		return "Incomplete"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (s Sort) Label() string {
	switch s {
	case SortCreatedDesc:
		return "Newest First"
	case SortCreatedAsc:
		return "Oldest First"
	case SortTitleAsc:
		return "Title (A-Z)"
	default:
		return "Default"
	}
}

// Next cycles through Filters.
func (f Filter) Next() Filter {
	return next(Filters, f)
}

// Next cycles through Sorts.
func (s Sort) Next() Sort {
	return next(Sorts, s)
}

func next[T comparable](all []T, cur T) T {
	i := slices.Index(all, cur)
	return all[(i+1)%len(all)]
}

func (f Filter) keep(t todo.Todo) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted
	case FilterIncomplete:
		return !t.IsCompleted
	default:
		return true
	}
}

func (s Sort) compare(a, b todo.Todo) int {
	switch s {
	case SortCreatedDesc:
		return b.CreatedAt.Compare(a.CreatedAt)
	case SortCreatedAsc:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortTitleAsc:
		return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
	default:
		if a.IsCompleted != b.IsCompleted {
			if a.IsCompleted {
				return 1
			}
			return -1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	}
}

// Project returns a new slice holding the todos that pass filter, ordered by
// sort. Ties keep their canonical order.
func Project(todos []todo.Todo, filter Filter, sort Sort) []todo.Todo {
	out := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if filter.keep(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, sort.compare)
	return out
}

type Counts struct {
	Total      int
	Incomplete int
	Completed  int
}

func Summarize(todos []todo.Todo) Counts {
	c := Counts{Total: len(todos)}
	for _, t := range todos {
		if t.IsCompleted {
			c.Completed++
		}
	}
	c.Incomplete = c.Total - c.Completed
	return c
}
