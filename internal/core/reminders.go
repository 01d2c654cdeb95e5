package core

import (
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// Reminders returns the pending tasks of the snapshot that start within lead
// of now, earliest first.
func Reminders(today TodaySnapshot, now time.Time, lead time.Duration) []TodayTaskView {
	var out []TodayTaskView
	deadline := now.Add(lead)
	for _, t := range today.Tasks {
		if t.Status != models.StatusPending {
			continue
		}
		if t.Start.After(now) && !t.Start.After(deadline) {
			out = append(out, t)
		}
	}
	return out
}
