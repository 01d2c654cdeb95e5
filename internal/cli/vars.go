package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/observability"
	"github.com/valter-silva-au/focus-flow/internal/storage"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *models.GlobalConfig

	StateMgr     storage.StateManager
	StateWatcher *storage.Watcher

	DayViews core.DayViewBuilder
	Tracker  core.StatusTracker
	Planner  core.PlanManager
	Notes    core.NoteManager
	Settings core.SettingsManager
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
	Outbox      observability.Outbox
)

// now is the clock used by commands. Tests replace it.
var now = time.Now

// defaultCoachMode returns the configured coach mode, or momentum when the
// configuration is missing or invalid.
func defaultCoachMode() core.CoachMode {
	if Config == nil {
		return core.CoachMomentum
	}
	mode, err := core.ParseCoachMode(Config.DefaultCoachMode)
	if err != nil {
		return core.CoachMomentum
	}
	return mode
}

// commandContext returns the command's context, or a background context
// when the command is run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
