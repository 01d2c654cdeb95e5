package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

const testDay = "2026-10-19"

func newTestTracker(t *testing.T, plan ...models.WeeklyTask) (*statusTracker, *memStore, *recordingLogger) {
	t.Helper()
	store := newMemStore()
	store.state.WeeklyPlan = plan
	events := &recordingLogger{}
	tr := NewStatusTracker(store, events, 5).(*statusTracker)
	tr.now = func() time.Time { return monday(10, 0) }
	return tr, store, events
}

// loggedStatus reads a task's status from a copy of the day's log.
func loggedStatus(s models.State, day, id string) models.TaskStatus {
	log := s.DailyLogs[day]
	return log.StatusOf(id)
}

func mark(t *testing.T, tr StatusTracker, id string, status models.TaskStatus) {
	t.Helper()
	if err := tr.MarkTaskStatus(context.Background(), testDay, StatusChange{TaskID: id, Status: status}); err != nil {
		t.Fatalf("marking %s %s: %v", id, status, err)
	}
}

func TestMarkTaskStatus_CompleteCreditsReward(t *testing.T) {
	tr, store, events := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusCompleted)

	s := store.State()
	if got := loggedStatus(s, testDay, "a"); got != models.StatusCompleted {
		t.Errorf("expected completed, got %s", got)
	}
	if s.CoinBank != 10 {
		t.Errorf("expected coin bank 10, got %d", s.CoinBank)
	}
	if len(s.CoinLedger) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(s.CoinLedger))
	}
	entry := s.CoinLedger[0]
	if entry.Amount != 10 || entry.Type != models.LedgerReward || entry.TaskID != "a" || entry.ID == "" || entry.DateKey != testDay {
		t.Errorf("unexpected ledger entry %+v", entry)
	}
	if !entry.Date.Equal(monday(10, 0)) {
		t.Errorf("expected entry date from the clock, got %v", entry.Date)
	}
	if !s.DailyLogs[testDay].UpdatedAt.Equal(monday(10, 0)) {
		t.Errorf("expected log updated_at to be set")
	}
	if events.count("task.status_changed") != 1 || events.count("coins.recorded") != 1 {
		t.Errorf("unexpected events: %+v", events.events)
	}
}

func TestMarkTaskStatus_Idempotent(t *testing.T) {
	tr, store, events := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusCompleted)
	writes := store.writes
	mark(t, tr, "a", models.StatusCompleted)

	s := store.State()
	if s.CoinBank != 10 || len(s.CoinLedger) != 1 {
		t.Errorf("second identical mark changed coins: bank=%d ledger=%d", s.CoinBank, len(s.CoinLedger))
	}
	if len(s.DailyLogs[testDay].Tasks) != 1 {
		t.Errorf("expected a single log entry, got %+v", s.DailyLogs[testDay].Tasks)
	}
	if store.writes != writes {
		t.Errorf("expected no write for an unchanged status")
	}
	if events.count("task.status_changed") != 1 {
		t.Errorf("expected one status event, got %d", events.count("task.status_changed"))
	}
}

func TestMarkTaskStatus_PendingIsNoopForNewTask(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusPending)

	if store.writes != 0 {
		t.Errorf("expected no write, got %d", store.writes)
	}
}

func TestMarkTaskStatus_SkipDebitsPenalty(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusSkipped)

	s := store.State()
	if s.CoinBank != -5 {
		t.Errorf("expected coin bank -5, got %d", s.CoinBank)
	}
	if len(s.CoinLedger) != 1 || s.CoinLedger[0].Type != models.LedgerPenalty {
		t.Errorf("expected one penalty entry, got %+v", s.CoinLedger)
	}
}

func TestMarkTaskStatus_ReversalsBalance(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusCompleted)
	mark(t, tr, "a", models.StatusSkipped)
	mark(t, tr, "a", models.StatusInProgress)

	s := store.State()
	if s.CoinBank != 0 {
		t.Errorf("expected coin bank back to 0, got %d", s.CoinBank)
	}
	if NetCoins(s.CoinLedger) != s.CoinBank {
		t.Errorf("ledger sum %d != bank %d", NetCoins(s.CoinLedger), s.CoinBank)
	}
	// reward, reward reversal, penalty, penalty reversal
	if len(s.CoinLedger) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(s.CoinLedger))
	}
	if s.CoinLedger[1].Type != models.LedgerAdjustment || s.CoinLedger[3].Type != models.LedgerAdjustment {
		t.Errorf("expected reversals to be adjustments: %+v", s.CoinLedger)
	}
	if got := loggedStatus(s, testDay, "a"); got != models.StatusInProgress {
		t.Errorf("expected in_progress, got %s", got)
	}
}

func TestMarkTaskStatus_ZeroRewardRecordsNothing(t *testing.T) {
	tr, store, events := newTestTracker(t, planTask("a", 0, 9, 0, 30, 0))

	mark(t, tr, "a", models.StatusCompleted)

	s := store.State()
	if len(s.CoinLedger) != 0 {
		t.Errorf("expected no ledger entries, got %+v", s.CoinLedger)
	}
	if events.count("coins.recorded") != 0 {
		t.Errorf("expected no coin events")
	}
}

func TestMarkTaskStatus_Errors(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))
	ctx := context.Background()

	err := tr.MarkTaskStatus(ctx, testDay, StatusChange{TaskID: "missing", Status: models.StatusCompleted})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	err = tr.MarkTaskStatus(ctx, testDay, StatusChange{TaskID: "a", Status: "done"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if err := tr.MarkTaskStatus(ctx, "19/10/2026", StatusChange{TaskID: "a", Status: models.StatusCompleted}); err == nil {
		t.Error("expected error for malformed date key")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := tr.MarkTaskStatus(cancelled, testDay, StatusChange{TaskID: "a", Status: models.StatusCompleted}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if store.writes != 0 {
		t.Errorf("expected no writes after failures, got %d", store.writes)
	}
}

func TestMarkTaskStatus_OtherDaysUntouched(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusCompleted)
	if err := tr.MarkTaskStatus(context.Background(), "2026-10-12", StatusChange{TaskID: "a", Status: models.StatusSkipped}); err != nil {
		t.Fatal(err)
	}

	s := store.State()
	if loggedStatus(s, testDay, "a") != models.StatusCompleted {
		t.Error("marking another day changed today's log")
	}
	if loggedStatus(s, "2026-10-12", "a") != models.StatusSkipped {
		t.Error("expected the other day to be skipped")
	}
}

func TestMarkTaskStatus_NilEventLogger(t *testing.T) {
	store := newMemStore()
	store.state.WeeklyPlan = []models.WeeklyTask{planTask("a", 0, 9, 0, 30, 10)}
	tr := NewStatusTracker(store, nil, 5)

	mark(t, tr, "a", models.StatusCompleted)

	if store.State().CoinBank != 10 {
		t.Error("expected reward without an event logger")
	}
}

func TestMarkTaskStatus_DayMustMatchPlan(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{"scheduled weekday", "2026-10-19", nil},
		{"earlier week, same weekday", "2026-10-12", nil},
		{"tomorrow", "2026-10-20", ErrFutureDate},
		{"past tuesday", "2026-10-13", ErrTaskNotFound},
		{"past wednesday", "2026-10-14", ErrTaskNotFound},
		{"future monday", "2026-10-26", ErrFutureDate},
		{"far future", "2030-01-07", ErrFutureDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

			err := tr.MarkTaskStatus(context.Background(), tt.date, StatusChange{TaskID: "a", Status: models.StatusCompleted})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if store.State().CoinBank != 10 {
					t.Errorf("expected reward credited, bank %d", store.State().CoinBank)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			s := store.State()
			if s.CoinBank != 0 || len(s.CoinLedger) != 0 || len(s.DailyLogs) != 0 {
				t.Errorf("rejected mark changed state: bank=%d ledger=%d logs=%d", s.CoinBank, len(s.CoinLedger), len(s.DailyLogs))
			}
		})
	}
}

func TestMarkTaskStatus_ReversalUsesRecordedAmount(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	mark(t, tr, "a", models.StatusCompleted)
	store.state.WeeklyPlan[0].CoinReward = 40
	mark(t, tr, "a", models.StatusPending)
	if got := store.State().CoinBank; got != 0 {
		t.Fatalf("after undoing a reward of 10 the bank is %d, want 0", got)
	}

	mark(t, tr, "a", models.StatusCompleted)
	mark(t, tr, "a", models.StatusPending)
	if got := store.State().CoinBank; got != 0 {
		t.Errorf("after completing and undoing at reward 40 the bank is %d, want 0", got)
	}

	tr.skipPenalty = 5
	mark(t, tr, "a", models.StatusSkipped)
	tr.skipPenalty = 50
	mark(t, tr, "a", models.StatusInProgress)
	s := store.State()
	if s.CoinBank != 0 || NetCoins(s.CoinLedger) != 0 {
		t.Errorf("after undoing a skip the bank is %d (ledger %d), want 0", s.CoinBank, NetCoins(s.CoinLedger))
	}
}

func TestMarkTaskStatus_ReversalIsPerDay(t *testing.T) {
	tr, store, _ := newTestTracker(t, planTask("a", 0, 9, 0, 30, 10))

	if err := tr.MarkTaskStatus(context.Background(), "2026-10-12", StatusChange{TaskID: "a", Status: models.StatusCompleted}); err != nil {
		t.Fatal(err)
	}
	mark(t, tr, "a", models.StatusSkipped)

	s := store.State()
	// last week's reward stays, today's penalty is added
	if s.CoinBank != 5 {
		t.Errorf("expected bank 10-5=5, got %d", s.CoinBank)
	}
	if len(s.CoinLedger) != 2 {
		t.Errorf("expected no reversal across days, got %+v", s.CoinLedger)
	}
}
