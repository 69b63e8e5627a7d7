package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/kv"
	"tally/internal/logging"
	"tally/internal/storage"
	"tally/internal/todo"
	"tally/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	a := &app{}
	defer a.close()
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// app holds everything a command needs once the config and database are
// open.
type app struct {
	configPath string
	dbPath     string

	cfg     config.Config
	logger  *log.Logger
	kv      kv.Store
	repo    *storage.Repository
	store   *todo.Store
	report  storage.Report
	closers []io.Closer
}

func (a *app) open() error {
	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	logger, closer, err := logging.Open(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel, ReportTimestamp: true})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closer)
	a.logger = logger

	store, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, store)
	a.kv = store

	a.repo = storage.NewRepository(store, logger)
	a.store = todo.NewStore(a.repo, todo.WithLogger(logger))
	a.report, err = storage.Hydrate(a.store, a.repo)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}
	logger.Debug("hydrated", "restored", a.report.Restored, "corrupted", len(a.report.CorruptedKeys))
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tally",
		Short:         "A todo list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(a.store, a.repo, a.cfg, a.report, ui.WithLogger(a.logger))
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $TALLY_CONFIG or ~/.config/tally/config.toml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file, overrides db_path from the config")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newCompletionCmd(a, "done", "Mark a todo as completed", true),
		newCompletionCmd(a, "undo", "Mark a todo as incomplete", false),
		newEditCmd(a),
		newRmCmd(a),
		newCompleteAllCmd(a),
		newClearCompletedCmd(a),
		newDoctorCmd(a),
	)
	return root
}

var errEmptyText = errors.New("todo text cannot be empty")
