package core

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of the per-day keys used to index daily logs.
const DateKeyLayout = "2006-01-02"

// eveningHour is the local hour from which the day counts as evening.
const eveningHour = 19

// ISOWeekday converts t's weekday to the Monday=0 .. Sunday=6 convention
// used by the weekly plan.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateKey returns the daily log key for the local calendar day containing t,
// whatever location t carries.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(DateKeyLayout)
}

// ParseDateKey parses a daily log key into local midnight of that day.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: expected YYYY-MM-DD", key)
	}
	return t, nil
}

// WeekKey identifies the ISO week containing t, e.g. "2026-W43".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// IsEvening reports whether t falls in the evening review window.
func IsEvening(t time.Time) bool {
	return t.Hour() >= eveningHour
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// atClock returns the instant on t's calendar day at hour:minute.
func atClock(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}
