package storage

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
	"pgregory.net/rapid"
)

func genAlphaString(t *rapid.T, label string, minLen, maxLen int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	n := rapid.IntRange(minLen, maxLen).Draw(t, label+"Len")
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rapid.IntRange(0, len(letters)-1).Draw(t, label+"Char")]
	}
	return string(b)
}

func genWeeklyTask(t *rapid.T, i int) models.WeeklyTask {
	difficulties := []models.Difficulty{
		models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyBoss,
	}
	d := difficulties[rapid.IntRange(0, len(difficulties)-1).Draw(t, "difficulty")]
	return models.WeeklyTask{
		ID:              fmt.Sprintf("task-%d", i),
		Weekday:         rapid.IntRange(0, 6).Draw(t, "weekday"),
		Hour:            rapid.IntRange(0, 23).Draw(t, "hour"),
		Minute:          rapid.IntRange(0, 59).Draw(t, "minute"),
		DurationMinutes: rapid.IntRange(1, 240).Draw(t, "duration"),
		Title:           genAlphaString(t, "title", 1, 20),
		Difficulty:      d,
		Category:        models.DefaultCategory,
		CoinReward:      d.DefaultReward(),
	}
}

func genState(t *rapid.T) models.State {
	s := models.DefaultState()

	nTasks := rapid.IntRange(0, 5).Draw(t, "nTasks")
	for i := 0; i < nTasks; i++ {
		s.WeeklyPlan = append(s.WeeklyPlan, genWeeklyTask(t, i))
	}

	statuses := models.AllStatuses()
	nDays := rapid.IntRange(0, 3).Draw(t, "nDays")
	for d := 0; d < nDays; d++ {
		key := fmt.Sprintf("2026-10-%02d", 10+d)
		log := models.DailyLog{Tasks: []models.DailyLogEntry{}, UpdatedAt: time.Date(2026, 10, 10+d, 12, 0, 0, 0, time.UTC)}
		for _, task := range s.WeeklyPlan {
			st := statuses[rapid.IntRange(0, len(statuses)-1).Draw(t, "status")]
			log.Tasks = append(log.Tasks, models.DailyLogEntry{TaskID: task.ID, Status: st})
		}
		s.DailyLogs[key] = log
	}

	nEntries := rapid.IntRange(0, 5).Draw(t, "nEntries")
	for i := 0; i < nEntries; i++ {
		amount := rapid.IntRange(-40, 40).Draw(t, "amount")
		s.CoinLedger = append(s.CoinLedger, models.CoinLedgerEntry{
			ID:     fmt.Sprintf("entry-%d", i),
			Date:   time.Date(2026, 10, 19, rapid.IntRange(0, 23).Draw(t, "entryHour"), 0, 0, 0, time.UTC),
			Amount: amount,
			Label:  genAlphaString(t, "label", 1, 15),
			Type:   models.LedgerAdjustment,
		})
		s.CoinBank += amount
	}

	nNotes := rapid.IntRange(0, 4).Draw(t, "nNotes")
	for i := 0; i < nNotes; i++ {
		s.QuickNotes = append(s.QuickNotes, genAlphaString(t, "note", 1, 30))
	}

	s.Settings.NotificationsEnabled = rapid.Bool().Draw(t, "notifications")
	s.Settings.WidgetPinned = rapid.Bool().Draw(t, "pinned")
	s.WeekMeta = models.WeekMeta{WeekKey: "2026-W43", EditsUsed: rapid.IntRange(0, 3).Draw(t, "edits")}
	return s
}

// Feature: focus-flow, Property 1: State round-trip
// Any state written through Mutate is read back unchanged by a fresh manager.
func TestProperty_StateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	rapid.Check(t, func(rt *rapid.T) {
		want := genState(rt)

		writer := NewStateManager(dir)
		if err := writer.Mutate(func(s *models.State) error {
			*s = cloneState(want)
			return nil
		}); err != nil {
			rt.Fatalf("mutate: %v", err)
		}

		reader := NewStateManager(dir)
		if err := reader.Load(); err != nil {
			rt.Fatalf("load: %v", err)
		}
		got := reader.State()

		if !reflect.DeepEqual(got.WeeklyPlan, want.WeeklyPlan) {
			rt.Fatalf("weekly plan mismatch:\n got %+v\nwant %+v", got.WeeklyPlan, want.WeeklyPlan)
		}
		if got.CoinBank != want.CoinBank {
			rt.Fatalf("coin bank: got %d, want %d", got.CoinBank, want.CoinBank)
		}
		if len(got.CoinLedger) != len(want.CoinLedger) {
			rt.Fatalf("ledger length: got %d, want %d", len(got.CoinLedger), len(want.CoinLedger))
		}
		for i := range want.CoinLedger {
			g, w := got.CoinLedger[i], want.CoinLedger[i]
			if g.ID != w.ID || g.Amount != w.Amount || g.Label != w.Label || !g.Date.Equal(w.Date) {
				rt.Fatalf("ledger entry %d: got %+v, want %+v", i, g, w)
			}
		}
		if len(got.DailyLogs) != len(want.DailyLogs) {
			rt.Fatalf("daily logs: got %d days, want %d", len(got.DailyLogs), len(want.DailyLogs))
		}
		for key, w := range want.DailyLogs {
			g := got.DailyLogs[key]
			if !reflect.DeepEqual(g.Tasks, w.Tasks) || !g.UpdatedAt.Equal(w.UpdatedAt) {
				rt.Fatalf("daily log %s: got %+v, want %+v", key, g, w)
			}
		}
		if !reflect.DeepEqual(got.QuickNotes, want.QuickNotes) {
			rt.Fatalf("notes: got %v, want %v", got.QuickNotes, want.QuickNotes)
		}
		if got.Settings != want.Settings || got.WeekMeta != want.WeekMeta {
			rt.Fatalf("settings/meta mismatch: got %+v %+v", got.Settings, got.WeekMeta)
		}
	})
}
