package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tally/internal/dates"
	"tally/internal/listview"
	"tally/internal/todo"
)

func newListCmd(a *app) *cobra.Command {
	var filter, sort string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the todo list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("filter") {
				filter = a.cfg.DefaultFilter
			}
			if !cmd.Flags().Changed("sort") {
				sort = a.cfg.DefaultSort
			}
			f, err := listview.ParseFilter(filter)
			if err != nil {
				return err
			}
			s, err := listview.ParseSort(sort)
			if err != nil {
				return err
			}
			warnCorrupted(cmd.ErrOrStderr(), a.report.CorruptedKeys)

			todos := a.store.State().Todos
			if len(todos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "You have no todos yet.")
				return nil
			}
			view := listview.Project(todos, f, s)
			if len(view) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No todos match this filter.")
				return nil
			}
			now := time.Now()
			width := lineWidth()
			for _, t := range view {
				printTodo(cmd.OutOrStdout(), t, now, width)
			}
			c := listview.Summarize(todos)
			fmt.Fprintf(cmd.OutOrStdout(), "%d incomplete / %d completed\n", c.Incomplete, c.Completed)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, incomplete or completed")
	cmd.Flags().StringVar(&sort, "sort", "default", "default, date-created-desc, date-created-asc or title-asc")
	return cmd
}

const (
	defaultLineWidth = 80
	textIndent       = 9
)

// lineWidth is the terminal width when stdout is one.
func lineWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultLineWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= textIndent {
		return defaultLineWidth
	}
	return w
}

func printTodo(w io.Writer, t todo.Todo, now time.Time, width int) {
	box := "[ ]"
	if t.IsCompleted {
		box = "[x]"
	}
	var meta []string
	if t.CompletedAt != nil {
		meta = append(meta, "Completed "+dates.Friendly(*t.CompletedAt, now))
	}
	if t.LastUpdatedAt != nil {
		meta = append(meta, "Last updated "+dates.Friendly(*t.LastUpdatedAt, now))
	}
	meta = append(meta, "Created "+dates.Friendly(t.CreatedAt, now))

	text := strings.TrimPrefix(indent.String(wordwrap.String(t.Text, width-textIndent), uint(textIndent)), strings.Repeat(" ", textIndent))
	fmt.Fprintf(w, "%4d %s %s\n", t.ID, box, text)
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", textIndent), strings.Join(meta, " · "))
}

func warnCorrupted(w io.Writer, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(w, "warning: %d saved todos are corrupted and were skipped (run `tally doctor --purge` to delete them)\n", len(keys))
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := todoText(args)
			if err != nil {
				return err
			}
			state := a.store.Dispatch(todo.AddTodo{Text: text})
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo #%d\n", state.NextID-1)
			return nil
		},
	}
}

func newCompletionCmd(a *app, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := existingID(a, args[0])
			if err != nil {
				return err
			}
			a.store.Dispatch(todo.UpdateCompletion{ID: id, Completed: completed})
			if completed {
				fmt.Fprintf(cmd.OutOrStdout(), "Completed todo #%d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened todo #%d\n", id)
			}
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace a todo's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := existingID(a, args[0])
			if err != nil {
				return err
			}
			text, err := todoText(args[1:])
			if err != nil {
				return err
			}
			a.store.Dispatch(todo.UpdateText{ID: id, Text: text})
			fmt.Fprintf(cmd.OutOrStdout(), "Updated todo #%d\n", id)
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := existingID(a, args[0])
			if err != nil {
				return err
			}
			a.store.Dispatch(todo.DeleteTodo{ID: id})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo #%d\n", id)
			return nil
		},
	}
}

func newCompleteAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-all",
		Short: "Mark every incomplete todo as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := listview.Summarize(a.store.State().Todos).Incomplete
			a.store.Dispatch(todo.CompleteAll{})
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %d todos\n", n)
			return nil
		},
	}
}

func newClearCompletedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Permanently delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := listview.Summarize(a.store.State().Todos).Completed
			a.store.Dispatch(todo.ClearCompleted{})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d completed todos\n", n)
			return nil
		},
	}
}

func newDoctorCmd(a *app) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report saved todos that could not be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := a.report.CorruptedKeys
			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "No corrupted todos found.")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintln(out, k)
			}
			if !purge {
				fmt.Fprintf(out, "%d corrupted todos; rerun with --purge to delete them\n", len(keys))
				return nil
			}
			if err := a.repo.DeleteKeys(keys); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d corrupted todos\n", len(keys))
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "delete the corrupted records")
	return cmd
}

func todoText(args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errEmptyText
	}
	if n := utf8.RuneCountInString(text); n > todo.MaxTextLength {
		return "", fmt.Errorf("todo text is too long (over by %d characters)", n-todo.MaxTextLength)
	}
	return text, nil
}

// existingID parses arg and checks the todo exists, so the CLI can report a
// miss instead of silently doing nothing.
func existingID(a *app, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	if _, ok := a.store.State().Find(id); !ok {
		return 0, fmt.Errorf("no todo with id %d", id)
	}
	return id, nil
}
