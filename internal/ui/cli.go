// Package ui provides the command surface and composition root wiring.
package ui

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lockin/internal/alarm"
	"lockin/internal/config"
	"lockin/internal/db"
	"lockin/internal/prefs"
	"lockin/internal/service"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state. The store, preference file and
// alarm dispatcher are opened lazily on first use and owned here; nothing
// is a process-wide singleton.
type App struct {
	config *config.Config
	root   *cobra.Command

	store      *db.Store
	prefs      *prefs.Store
	dispatcher *alarm.Dispatcher
	tasks      *service.Tasks
	lists      *service.Checklists
}

// NewApp creates the CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "lockin",
		Short: "A local-first task, calendar and checklist planner",
		Long: `Lockin is a local-first personal planner.

It manages one-off and recurring tasks on a day timeline, independent
checklists, reminder alarms, and JSON/CSV/TSV/TXT backups. All state lives
in a local SQLite database and a preference file.`,
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.agendaCmd())
	a.root.AddCommand(a.calendarCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.searchCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.pruneCmd())
	a.root.AddCommand(a.checklistCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

// ensureStore opens the database, preference store and alarm dispatcher on
// first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}

	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	p, err := prefs.Open(a.config.Storage.PrefsPath)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("opening preferences: %w", err)
	}

	dispatcher := alarm.NewDispatcher(func(payload alarm.Payload) {
		fmt.Println(color.YellowString("reminder:"), payload.Message)
	})
	// A dispatcher that fails to start means no reminders fire; the
	// planner keeps working.
	_ = dispatcher.Start()

	a.store = store
	a.prefs = p
	a.dispatcher = dispatcher
	a.tasks = service.NewTasks(store, store, alarm.NewScheduler(dispatcher), p)
	a.lists = service.NewChecklists(store)

	// Alarm registrations live in process memory, so each startup rebuilds
	// them from the stored tasks, like a boot receiver would.
	_ = a.tasks.RescheduleAll(context.Background())
	return nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("lockin %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("db_path:    %s\n", a.config.Storage.DBPath)
			fmt.Printf("prefs_path: %s\n", a.config.Storage.PrefsPath)
			return nil
		},
	}
}
