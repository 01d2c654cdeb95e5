package observability

import (
	"fmt"
	"time"
)

// Metrics summarises the event log over a window.
type Metrics struct {
	StatusChanges  int            `json:"status_changes"`
	TasksByStatus  map[string]int `json:"tasks_by_status"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksSkipped   int            `json:"tasks_skipped"`
	CoinsEarned    int            `json:"coins_earned"`
	CoinsLost      int            `json:"coins_lost"`
	NetCoins       int            `json:"net_coins"`
	PlanEdits      int            `json:"plan_edits"`
	NotesAdded     int            `json:"notes_added"`
	EventCount     int            `json:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty"`
}

// CompletionRate is completed over completed plus skipped, or 0 when no
// task was finished in the window.
func (m *Metrics) CompletionRate() float64 {
	done := m.TasksCompleted + m.TasksSkipped
	if done == 0 {
		return 0
	}
	return float64(m.TasksCompleted) / float64(done)
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{TasksByStatus: make(map[string]int)}
	m.EventCount = len(events)

	for i, event := range events {
		t := event.Time
		if i == 0 {
			m.OldestEvent = &t
		}
		m.NewestEvent = &t

		switch event.Type {
		case EventStatusChanged:
			m.StatusChanges++
			status, _ := event.Data["new_status"].(string)
			if status != "" {
				m.TasksByStatus[status]++
			}
			switch status {
			case "completed":
				m.TasksCompleted++
			case "skipped":
				m.TasksSkipped++
			}
		case EventCoinsRecorded:
			amount, _ := intField(event.Data, "amount")
			if amount > 0 {
				m.CoinsEarned += amount
			} else {
				m.CoinsLost -= amount
			}
			m.NetCoins += amount
		case EventPlanAdded, EventPlanUpdated, EventPlanRemoved:
			m.PlanEdits++
		case EventNoteAdded:
			m.NotesAdded++
		}
	}

	return m, nil
}
