package observability

import (
	"fmt"
	"sort"
	"time"

	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// Alert conditions.
const (
	ConditionOverdue      = "tasks_overdue"
	ConditionPenalties    = "penalties_today"
	ConditionEvening      = "evening_low_progress"
	ConditionStalled      = "task_stalled"
	ConditionStartingSoon = "task_starting_soon"
)

// AlertEngine evaluates alert conditions for the current day.
type AlertEngine interface {
	// Evaluate checks the day's progress and the event log.
	Evaluate() ([]Alert, error)
	// Upcoming returns a reminder alert for each pending task starting
	// within lead.
	Upcoming(lead time.Duration) []Alert
}

type alertEngine struct {
	eventLog   EventLog
	days       core.DayViewBuilder
	thresholds models.AlertConfig
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine. eventLog may be nil, in which case
// the stalled-task check is skipped.
func NewAlertEngine(eventLog EventLog, days core.DayViewBuilder, thresholds models.AlertConfig) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		days:       days,
		thresholds: thresholds,
		now:        time.Now,
	}
}

func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now()
	view := ae.days.Build(now)

	var alerts []Alert
	alerts = append(alerts, ae.checkOverdue(view, now)...)
	alerts = append(alerts, ae.checkPenalties(view, now)...)
	alerts = append(alerts, ae.checkEvening(view, now)...)

	stalled, err := ae.checkStalled(view, now)
	if err != nil {
		return nil, fmt.Errorf("checking stalled tasks: %w", err)
	}
	alerts = append(alerts, stalled...)

	return alerts, nil
}

func (ae *alertEngine) checkOverdue(view core.DayView, now time.Time) []Alert {
	if view.Today.Overdue < ae.thresholds.OverdueCount {
		return nil
	}
	return []Alert{{
		ID:          "overdue-" + view.Today.Date,
		Condition:   ConditionOverdue,
		Severity:    SeverityHigh,
		Message:     fmt.Sprintf("%d ta vazifa kechikmoqda", view.Today.Overdue),
		TriggeredAt: now,
	}}
}

func (ae *alertEngine) checkPenalties(view core.DayView, now time.Time) []Alert {
	net := core.NetCoins(view.Ledger)
	if net > -ae.thresholds.PenaltyCoins {
		return nil
	}
	return []Alert{{
		ID:          "penalties-" + view.Today.Date,
		Condition:   ConditionPenalties,
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("bugungi coin harakati %d, balans %d coin", net, view.CoinBank),
		TriggeredAt: now,
	}}
}

func (ae *alertEngine) checkEvening(view core.DayView, now time.Time) []Alert {
	if !view.Evening || view.Today.Total == 0 {
		return nil
	}
	pct := view.Today.CompletionPercent()
	if pct >= ae.thresholds.EveningProgressPercent {
		return nil
	}
	return []Alert{{
		ID:          "evening-" + view.Today.Date,
		Condition:   ConditionEvening,
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("kech kirdi, bajarilish %d%% (%d/%d)", pct, view.Today.Completed, view.Today.Total),
		TriggeredAt: now,
	}}
}

// checkStalled finds tasks still in progress today whose last status change
// is older than the stalled threshold.
func (ae *alertEngine) checkStalled(view core.DayView, now time.Time) ([]Alert, error) {
	if ae.eventLog == nil {
		return nil, nil
	}
	events, err := ae.eventLog.Read(EventFilter{Type: EventStatusChanged})
	if err != nil {
		return nil, err
	}

	lastChange := make(map[string]time.Time)
	for _, event := range events {
		taskID, _ := event.Data["task_id"].(string)
		date, _ := event.Data["date"].(string)
		if taskID == "" || date != view.Today.Date {
			continue
		}
		lastChange[taskID] = event.Time
	}

	threshold := time.Duration(ae.thresholds.StalledHours) * time.Hour
	var alerts []Alert
	for _, task := range view.Today.Tasks {
		if task.Status != models.StatusInProgress {
			continue
		}
		changedAt, ok := lastChange[task.ID]
		if !ok || now.Sub(changedAt) <= threshold {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("stalled-%s-%s", view.Today.Date, task.ID),
			Condition:   ConditionStalled,
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%q %d soatdan beri jarayonda", task.Title, ae.thresholds.StalledHours),
			TriggeredAt: now,
		})
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
	return alerts, nil
}

func (ae *alertEngine) Upcoming(lead time.Duration) []Alert {
	now := ae.now()
	view := ae.days.Build(now)

	var alerts []Alert
	for _, task := range core.Reminders(view.Today, now, lead) {
		minutes := int(task.Start.Sub(now).Round(time.Minute) / time.Minute)
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("soon-%s-%s", view.Today.Date, task.ID),
			Condition:   ConditionStartingSoon,
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%q %s da boshlanadi (%d daqiqa qoldi)", task.Title, task.Start.Format("15:04"), minutes),
			TriggeredAt: now,
		})
	}
	return alerts
}
