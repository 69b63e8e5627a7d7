package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"

	"tally/internal/todo"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"tally": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("TALLY_CONFIG", env.WorkDir+"/cfg/config.toml")
			return nil
		},
	})
}

func TestTodoText(t *testing.T) {
	long := make([]rune, 260)
	for i := range long {
		long[i] = 'x'
	}
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "joins and trims", args: []string{"  buy", "milk  "}, want: "buy milk"},
		{name: "blank", args: []string{"   "}, wantErr: "todo text cannot be empty"},
		{name: "too long", args: []string{string(long)}, wantErr: "todo text is too long (over by 5 characters)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := todoText(tt.args)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("todoText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintTodoWrapsText(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	done := now.Add(-2 * time.Hour)
	var buf bytes.Buffer
	printTodo(&buf, todo.Todo{
		ID:          12,
		Text:        "pick up the dry cleaning before the shop closes",
		IsCompleted: true,
		CreatedAt:   now.Add(-3 * time.Hour),
		CompletedAt: &done,
	}, now, 30)

	want := "  12 [x] pick up the dry\n" +
		"         cleaning before the\n" +
		"         shop closes\n" +
		"         Completed 2 hours ago · Created 3 hours ago\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}
