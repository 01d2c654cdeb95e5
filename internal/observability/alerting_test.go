package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// stateDays implements core.DayViewBuilder over a fixed state.
type stateDays struct {
	state models.State
}

func (d stateDays) Build(now time.Time) core.DayView {
	return core.BuildDayView(d.state, now)
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, time.Local)
}

func task(id string, hour int) models.WeeklyTask {
	return models.WeeklyTask{
		ID: id, Weekday: 0, Hour: hour, DurationMinutes: 30,
		Title: "Task " + id, Difficulty: models.DifficultyMedium, Category: "focus", CoinReward: 10,
	}
}

func newTestEngine(t *testing.T, s models.State, log EventLog, now time.Time) *alertEngine {
	t.Helper()
	ae := NewAlertEngine(log, stateDays{state: s}, models.AlertConfig{
		OverdueCount: 2, PenaltyCoins: 10, EveningProgressPercent: 50, StalledHours: 3,
	}).(*alertEngine)
	ae.now = func() time.Time { return now }
	return ae
}

func conditions(alerts []Alert) []string {
	var out []string
	for _, a := range alerts {
		out = append(out, a.Condition)
	}
	return out
}

func TestAlertEngine_NoAlertsOnCleanDay(t *testing.T) {
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 15)}

	alerts, err := newTestEngine(t, s, nil, at(9, 0)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", conditions(alerts))
	}
}

func TestAlertEngine_Overdue(t *testing.T) {
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 7), task("b", 8), task("c", 15)}

	alerts, err := newTestEngine(t, s, nil, at(10, 0)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].Condition != ConditionOverdue || alerts[0].Severity != SeverityHigh {
		t.Fatalf("expected one high overdue alert, got %+v", alerts)
	}
	if !strings.Contains(alerts[0].Message, "2 ta") {
		t.Errorf("unexpected message %q", alerts[0].Message)
	}
}

func TestAlertEngine_SingleOverdueBelowThreshold(t *testing.T) {
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 7), task("c", 15)}

	alerts, err := newTestEngine(t, s, nil, at(10, 0)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", conditions(alerts))
	}
}

func TestAlertEngine_Penalties(t *testing.T) {
	s := models.DefaultState()
	s.CoinLedger = []models.CoinLedgerEntry{
		{Date: at(8, 0), Amount: -5},
		{Date: at(9, 0), Amount: -5},
		{Date: at(9, 0).AddDate(0, 0, -1), Amount: -50},
	}
	s.CoinBank = -60

	alerts, err := newTestEngine(t, s, nil, at(10, 0)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].Condition != ConditionPenalties || alerts[0].Severity != SeverityMedium {
		t.Fatalf("expected one penalty alert, got %+v", alerts)
	}
}

func TestAlertEngine_EveningLowProgress(t *testing.T) {
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 7), task("b", 21)}
	s.DailyLogs["2026-10-19"] = models.DailyLog{Tasks: []models.DailyLogEntry{{TaskID: "a", Status: models.StatusSkipped}}}

	alerts, err := newTestEngine(t, s, nil, at(19, 30)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if got := conditions(alerts); len(got) != 1 || got[0] != ConditionEvening {
		t.Fatalf("expected evening alert, got %v", got)
	}

	s.DailyLogs["2026-10-19"] = models.DailyLog{Tasks: []models.DailyLogEntry{{TaskID: "a", Status: models.StatusCompleted}}}
	alerts, err = newTestEngine(t, s, nil, at(19, 30)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alert at 50%%, got %v", conditions(alerts))
	}
}

func TestAlertEngine_Stalled(t *testing.T) {
	log, _ := newTestEventLog(t)
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 9), task("b", 9)}
	s.DailyLogs["2026-10-19"] = models.DailyLog{Tasks: []models.DailyLogEntry{
		{TaskID: "a", Status: models.StatusInProgress},
		{TaskID: "b", Status: models.StatusInProgress},
	}}
	s.WeeklyPlan[0].DurationMinutes = 600
	s.WeeklyPlan[1].DurationMinutes = 600
	writeEvents(t, log,
		Event{Time: at(9, 0), Type: EventStatusChanged, Data: map[string]any{"task_id": "a", "date": "2026-10-19", "new_status": "in_progress"}},
		Event{Time: at(12, 0), Type: EventStatusChanged, Data: map[string]any{"task_id": "b", "date": "2026-10-19", "new_status": "in_progress"}},
	)

	alerts, err := newTestEngine(t, s, log, at(13, 0)).Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].Condition != ConditionStalled || alerts[0].Severity != SeverityLow {
		t.Fatalf("expected one stalled alert, got %+v", alerts)
	}
	if !strings.Contains(alerts[0].ID, "-a") {
		t.Errorf("expected alert for task a, got %s", alerts[0].ID)
	}
}

func TestAlertEngine_Upcoming(t *testing.T) {
	s := models.DefaultState()
	s.WeeklyPlan = []models.WeeklyTask{task("a", 10), task("b", 11)}

	alerts := newTestEngine(t, s, nil, at(9, 56)).Upcoming(5 * time.Minute)

	if len(alerts) != 1 {
		t.Fatalf("expected one reminder, got %+v", alerts)
	}
	if alerts[0].Condition != ConditionStartingSoon || alerts[0].Severity != SeverityLow {
		t.Errorf("unexpected alert %+v", alerts[0])
	}
	if !strings.Contains(alerts[0].Message, "10:00") || !strings.Contains(alerts[0].Message, "4 daqiqa") {
		t.Errorf("unexpected message %q", alerts[0].Message)
	}
}
