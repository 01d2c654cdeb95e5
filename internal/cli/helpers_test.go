package cli

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/storage"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// testNow is Monday 2026-10-19 at 09:10 local time.
var testNow = time.Date(2026, 10, 19, 9, 10, 0, 0, time.Local)

const testDate = "2026-10-19"

func testPlan() []models.WeeklyTask {
	return []models.WeeklyTask{
		{ID: "run", Weekday: 0, Hour: 9, Minute: 0, DurationMinutes: 30, Title: "Morning run", Difficulty: models.DifficultyMedium, Category: "health", CoinReward: 10},
		{ID: "read", Weekday: 0, Hour: 21, Minute: 0, DurationMinutes: 45, Title: "Read", Difficulty: models.DifficultyEasy, Category: "focus", CoinReward: 5},
		{ID: "gym", Weekday: 2, Hour: 18, Minute: 0, DurationMinutes: 60, Title: "Gym", Difficulty: models.DifficultyHard, Category: "health", CoinReward: 20},
	}
}

// setupServices wires real core services over a state file in a temp
// directory seeded with testPlan, pins the clock to testNow and restores
// every package variable when the test ends.
func setupServices(t *testing.T) storage.StateManager {
	t.Helper()

	origBase, origCfg := BasePath, Config
	origState, origWatcher := StateMgr, StateWatcher
	origDays, origTracker, origPlanner, origNotes, origSettings := DayViews, Tracker, Planner, Notes, Settings
	origLog, origAlerts, origMetrics, origNotifier := EventLog, AlertEngine, MetricsCalc, Notifier
	origOutbox, origNow := Outbox, now
	t.Cleanup(func() {
		BasePath, Config = origBase, origCfg
		StateMgr, StateWatcher = origState, origWatcher
		DayViews, Tracker, Planner, Notes, Settings = origDays, origTracker, origPlanner, origNotes, origSettings
		EventLog, AlertEngine, MetricsCalc, Notifier = origLog, origAlerts, origMetrics, origNotifier
		Outbox, now = origOutbox, origNow
	})

	dir := t.TempDir()
	store := storage.NewStateManager(dir)
	if err := store.Mutate(func(s *models.State) error {
		s.WeeklyPlan = testPlan()
		return nil
	}); err != nil {
		t.Fatalf("seeding state: %v", err)
	}

	BasePath = dir
	Config = core.DefaultGlobalConfig()
	StateMgr = store
	StateWatcher = nil
	DayViews = core.NewDayViewBuilder(store)
	Tracker = core.NewStatusTracker(store, nil, Config.SkipPenalty)
	Planner = core.NewPlanManager(store, nil, Config.WeeklyEditLimit)
	Notes = core.NewNoteManager(store, nil)
	Settings = core.NewSettingsManager(store, nil, false)
	EventLog, AlertEngine, MetricsCalc, Notifier = nil, nil, nil, nil
	Outbox = nil
	now = func() time.Time { return testNow }
	return store
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(out)
}
