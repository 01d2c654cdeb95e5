package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// StatusChange is a request to set a task's status on a given day.
type StatusChange struct {
	TaskID string
	Status models.TaskStatus
}

// StatusTracker applies daily task status changes and the coin movements
// they imply.
type StatusTracker interface {
	MarkTaskStatus(ctx context.Context, dateKey string, change StatusChange) error
}

// errUnchanged aborts a mutation that would not change anything, so the
// state file is left alone.
var errUnchanged = errors.New("status unchanged")

type statusTracker struct {
	store       StateStore
	events      EventLogger
	skipPenalty int
	now         func() time.Time

	// mu serialises double submits from the same process.
	mu sync.Mutex
}

// NewStatusTracker creates a StatusTracker. events may be nil.
func NewStatusTracker(store StateStore, events EventLogger, skipPenalty int) StatusTracker {
	return &statusTracker{
		store:       store,
		events:      events,
		skipPenalty: skipPenalty,
		now:         time.Now,
	}
}

// MarkTaskStatus sets the status of change.TaskID in the daily log for
// dateKey. The task must be scheduled on that day's weekday and the day
// must not be in the future. Setting the status a task already has is a
// no-op. Completing a task credits its reward, skipping debits the skip
// penalty, and leaving either state reverses exactly what the ledger holds
// for the task on that day with an adjustment entry.
func (t *statusTracker) MarkTaskStatus(ctx context.Context, dateKey string, change StatusChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !change.Status.Valid() {
		return fmt.Errorf("marking task %s: %w: %q", change.TaskID, ErrInvalidStatus, change.Status)
	}
	day, err := ParseDateKey(dateKey)
	if err != nil {
		return fmt.Errorf("marking task %s: %w", change.TaskID, err)
	}
	if today, _ := ParseDateKey(DateKey(t.now())); day.After(today) {
		return fmt.Errorf("marking task %s: %w: %s", change.TaskID, ErrFutureDate, dateKey)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		previous models.TaskStatus
		recorded []models.CoinLedgerEntry
	)
	err = t.store.Mutate(func(s *models.State) error {
		task, ok := findPlanTask(s.WeeklyPlan, change.TaskID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, change.TaskID)
		}
		if task.Weekday != ISOWeekday(day) {
			return fmt.Errorf("%w: %w: %s on %s", ErrTaskNotFound, ErrNotScheduled, change.TaskID, dateKey)
		}

		log := s.DailyLogs[dateKey]
		previous = log.StatusOf(task.ID)
		if previous == change.Status {
			return errUnchanged
		}

		now := t.now()
		log.Tasks = setLogStatus(log.Tasks, task.ID, change.Status)
		log.UpdatedAt = now
		if s.DailyLogs == nil {
			s.DailyLogs = make(map[string]models.DailyLog)
		}
		s.DailyLogs[dateKey] = log

		held := taskDayNet(s.CoinLedger, task.ID, dateKey)
		recorded = coinMovements(task, dateKey, held, change.Status, t.skipPenalty, now)
		for _, e := range recorded {
			s.CoinLedger = append(s.CoinLedger, e)
			s.CoinBank += e.Amount
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("marking task %s: %w", change.TaskID, err)
	}

	logEvent(t.events, "task.status_changed", map[string]any{
		"task_id":    change.TaskID,
		"date":       dateKey,
		"old_status": string(previous),
		"new_status": string(change.Status),
	})
	for _, e := range recorded {
		logEvent(t.events, "coins.recorded", map[string]any{
			"task_id": e.TaskID,
			"amount":  e.Amount,
			"type":    string(e.Type),
		})
	}
	return nil
}

func findPlanTask(plan []models.WeeklyTask, id string) (models.WeeklyTask, bool) {
	for _, t := range plan {
		if t.ID == id {
			return t, true
		}
	}
	return models.WeeklyTask{}, false
}

func setLogStatus(entries []models.DailyLogEntry, taskID string, status models.TaskStatus) []models.DailyLogEntry {
	out := make([]models.DailyLogEntry, 0, len(entries)+1)
	found := false
	for _, e := range entries {
		if e.TaskID == taskID {
			e.Status = status
			found = true
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, models.DailyLogEntry{TaskID: taskID, Status: status})
	}
	return out
}

// taskDayNet sums the ledger entries recorded for taskID on dateKey.
func taskDayNet(ledger []models.CoinLedgerEntry, taskID, dateKey string) int {
	net := 0
	for _, e := range ledger {
		if e.TaskID == taskID && e.DateKey == dateKey {
			net += e.Amount
		}
	}
	return net
}

// coinMovements returns the ledger entries for moving task to status to on
// dateKey. held is what the ledger already holds for the task on that day;
// it is reversed in full before the new movement is recorded.
func coinMovements(task models.WeeklyTask, dateKey string, held int, to models.TaskStatus, skipPenalty int, now time.Time) []models.CoinLedgerEntry {
	var out []models.CoinLedgerEntry
	add := func(amount int, typ models.LedgerType, label string) {
		if amount == 0 {
			return
		}
		out = append(out, models.CoinLedgerEntry{
			ID:      uuid.NewString(),
			Date:    now,
			Amount:  amount,
			Label:   label,
			Type:    typ,
			TaskID:  task.ID,
			DateKey: dateKey,
		})
	}

	switch {
	case held > 0:
		add(-held, models.LedgerAdjustment, task.Title+": bajarilish bekor qilindi")
	case held < 0:
		add(-held, models.LedgerAdjustment, task.Title+": penalti qaytarildi")
	}
	switch to {
	case models.StatusCompleted:
		add(task.CoinReward, models.LedgerReward, task.Title+" bajarildi")
	case models.StatusSkipped:
		add(-skipPenalty, models.LedgerPenalty, task.Title+" o'tkazib yuborildi")
	}
	return out
}
