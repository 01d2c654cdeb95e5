package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

func TestMarkCmd_Completed(t *testing.T) {
	store := setupServices(t)

	out := captureStdout(t, func() {
		if err := markCmd.RunE(markCmd, []string{"run", "completed"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	log := store.State().DailyLogs[testDate]
	if got := log.StatusOf("run"); got != models.StatusCompleted {
		t.Errorf("status = %q, want completed", got)
	}
	if !strings.Contains(out, "Task run marked completed on 2026-10-19") || !strings.Contains(out, "Coin bank: 10") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestMarkCmd_Idempotent(t *testing.T) {
	store := setupServices(t)

	for i := 0; i < 3; i++ {
		captureStdout(t, func() {
			if err := markCmd.RunE(markCmd, []string{"run", "completed"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	s := store.State()
	if s.CoinBank != 10 || len(s.CoinLedger) != 1 {
		t.Errorf("expected one reward, got bank %d and %d ledger entries", s.CoinBank, len(s.CoinLedger))
	}
}

func TestMarkCmd_WithDate(t *testing.T) {
	store := setupServices(t)
	markDate = "2026-10-12"
	defer func() { markDate = "" }()

	captureStdout(t, func() {
		if err := markCmd.RunE(markCmd, []string{"read", "skipped"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	s := store.State()
	log := s.DailyLogs["2026-10-12"]
	if got := log.StatusOf("read"); got != models.StatusSkipped {
		t.Errorf("status = %q, want skipped", got)
	}
	if s.CoinBank != -5 {
		t.Errorf("CoinBank = %d, want -5", s.CoinBank)
	}
}

func TestMarkCmd_Errors(t *testing.T) {
	setupServices(t)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"invalid status", []string{"run", "done"}, "invalid status"},
		{"unknown task", []string{"nope", "completed"}, "not in the weekly plan"},
		{"not scheduled that day", []string{"gym", "completed"}, "not scheduled on 2026-10-19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := markCmd.RunE(markCmd, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestMarkCmd_NilTracker(t *testing.T) {
	setupServices(t)
	Tracker = nil

	err := markCmd.RunE(markCmd, []string{"run", "completed"})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("expected not initialized error, got %v", err)
	}
}

func TestMarkCmd_FutureDate(t *testing.T) {
	store := setupServices(t)
	markDate = "2030-01-07"
	defer func() { markDate = "" }()

	err := markCmd.RunE(markCmd, []string{"run", "completed"})
	if err == nil || !strings.Contains(err.Error(), "2030-01-07 is in the future") {
		t.Fatalf("expected future date error, got %v", err)
	}
	if s := store.State(); s.CoinBank != 0 || len(s.CoinLedger) != 0 {
		t.Errorf("rejected mark changed coins: bank %d, %d ledger entries", s.CoinBank, len(s.CoinLedger))
	}
}
