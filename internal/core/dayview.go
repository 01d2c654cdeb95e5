package core

import (
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// DayView is everything the views render for one day, derived from a single
// read of the state.
type DayView struct {
	Today    TodaySnapshot            `json:"today"`
	Ledger   []models.CoinLedgerEntry `json:"ledger"`
	CoinBank int                      `json:"coin_bank"`
	Message  string                   `json:"message"`
	Notes    []string                 `json:"notes"`
	Settings models.Settings          `json:"settings"`
	Evening  bool                     `json:"evening"`
}

// Report builds the coach report for this day in the given mode.
func (v DayView) Report(mode CoachMode) CoachReport {
	return BuildCoachReport(mode, v.Today, v.Ledger, v.CoinBank)
}

// DayViewBuilder derives day views from the current state.
type DayViewBuilder interface {
	Build(now time.Time) DayView
}

type dayViewBuilder struct {
	store StateStore
}

// NewDayViewBuilder creates a DayViewBuilder reading from store.
func NewDayViewBuilder(store StateStore) DayViewBuilder {
	return &dayViewBuilder{store: store}
}

func (b *dayViewBuilder) Build(now time.Time) DayView {
	return BuildDayView(b.store.State(), now)
}

// BuildDayView derives the day view for now from s.
func BuildDayView(s models.State, now time.Time) DayView {
	var log *models.DailyLog
	if l, ok := s.DailyLogs[DateKey(now)]; ok {
		log = &l
	}
	today := BuildTodaySnapshot(s.WeeklyPlan, log, now)
	return DayView{
		Today:    today,
		Ledger:   LedgerForDay(s.CoinLedger, now),
		CoinBank: s.CoinBank,
		Message:  CoachMessage(today.Progress, today.Overdue, today.Skipped, today.Total),
		Notes:    s.QuickNotes,
		Settings: s.Settings,
		Evening:  IsEvening(now),
	}
}
