package core

import (
	"sync"
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// memStore implements StateStore in memory for testing.
type memStore struct {
	mu     sync.Mutex
	state  models.State
	writes int
}

func newMemStore() *memStore {
	return &memStore{state: models.DefaultState()}
}

func (m *memStore) State() models.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyState(m.state)
}

func (m *memStore) Mutate(fn func(*models.State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := copyState(m.state)
	if err := fn(&next); err != nil {
		return err
	}
	m.state = next
	m.writes++
	return nil
}

func copyState(s models.State) models.State {
	out := s
	out.WeeklyPlan = append([]models.WeeklyTask{}, s.WeeklyPlan...)
	out.CoinLedger = append([]models.CoinLedgerEntry{}, s.CoinLedger...)
	out.QuickNotes = append([]string{}, s.QuickNotes...)
	out.DailyLogs = make(map[string]models.DailyLog, len(s.DailyLogs))
	for k, v := range s.DailyLogs {
		v.Tasks = append([]models.DailyLogEntry{}, v.Tasks...)
		out.DailyLogs[k] = v
	}
	return out
}

type loggedEvent struct {
	Type string
	Data map[string]any
}

// recordingLogger implements EventLogger and keeps every event.
type recordingLogger struct {
	events []loggedEvent
}

func (r *recordingLogger) LogEvent(eventType string, data map[string]any) error {
	r.events = append(r.events, loggedEvent{Type: eventType, Data: data})
	return nil
}

func (r *recordingLogger) count(eventType string) int {
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// monday is 2026-10-19, a Monday, at the given local clock time.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, time.Local)
}

func planTask(id string, weekday, hour, minute, duration, reward int) models.WeeklyTask {
	return models.WeeklyTask{
		ID:              id,
		Weekday:         weekday,
		Hour:            hour,
		Minute:          minute,
		DurationMinutes: duration,
		Title:           "Task " + id,
		Difficulty:      models.DifficultyMedium,
		Category:        models.DefaultCategory,
		CoinReward:      reward,
	}
}
