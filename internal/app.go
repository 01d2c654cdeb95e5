// Package internal provides the App struct that wires all components of
// Focus Flow together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/focus-flow/internal/cli"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/observability"
	"github.com/valter-silva-au/focus-flow/internal/storage"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// DefaultDirName is the data directory created under the user's home when
// neither FOCUS_HOME nor a .focusconfig in the working tree is found.
const DefaultDirName = ".focusflow"

// App holds all service dependencies for Focus Flow.
type App struct {
	BasePath string
	Config   *models.GlobalConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	StateMgr storage.StateManager
	Watcher  *storage.Watcher

	// Core services
	DayViews core.DayViewBuilder
	Tracker  core.StatusTracker
	Planner  core.PlanManager
	Notes    core.NoteManager
	Settings core.SettingsManager

	// Observability
	EventLog    observability.EventLog
	Recorder    *observability.Recorder
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
	Outbox      observability.Outbox
}

// NewApp creates and wires all components of Focus Flow. basePath is the
// directory holding .focusconfig, state.yaml and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// Use defaults if the config file cannot be read.
		cfg = core.DefaultGlobalConfig()
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	app.StateMgr = storage.NewStateManager(basePath)
	if err := app.StateMgr.Load(); err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	app.Watcher = storage.NewWatcher(app.StateMgr.Path(), 0)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, observability.EventsFileName)
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: run without history if the log can't be opened.
		app.EventLog = nil
	}
	var events core.EventLogger
	if app.EventLog != nil {
		app.Recorder = observability.NewRecorder(app.EventLog)
		events = app.Recorder
	}

	// --- Core services ---
	canNotify := cfg.Notifications.SlackWebhookURL != ""
	app.DayViews = core.NewDayViewBuilder(app.StateMgr)
	app.Tracker = core.NewStatusTracker(app.StateMgr, events, cfg.SkipPenalty)
	app.Planner = core.NewPlanManager(app.StateMgr, events, cfg.WeeklyEditLimit)
	app.Notes = core.NewNoteManager(app.StateMgr, events)
	app.Settings = core.NewSettingsManager(app.StateMgr, events, canNotify)

	app.AlertEngine = observability.NewAlertEngine(app.EventLog, app.DayViews, cfg.Alerts)
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if canNotify {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.SlackWebhookURL)
	}
	app.Outbox = observability.NewOutbox(filepath.Join(basePath, observability.OutboxFileName))

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.StateMgr = app.StateMgr
	cli.StateWatcher = app.Watcher

	cli.DayViews = app.DayViews
	cli.Tracker = app.Tracker
	cli.Planner = app.Planner
	cli.Notes = app.Notes
	cli.Settings = app.Settings

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier
	cli.Outbox = app.Outbox

	return app, nil
}

// Close stops the state watcher and releases the event log file handle.
// It is safe to call on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the Focus Flow data directory. It checks the
// FOCUS_HOME env var, then walks up from the working directory looking for
// .focusconfig, and finally falls back to ~/.focusflow.
func ResolveBasePath() string {
	if home := os.Getenv("FOCUS_HOME"); home != "" {
		return home
	}

	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		cwd, _ := os.Getwd()
		return cwd
	}
	return filepath.Join(home, DefaultDirName)
}
