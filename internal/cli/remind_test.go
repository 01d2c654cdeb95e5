package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/observability"
)

func soonAlerts(lead time.Duration) []observability.Alert {
	return []observability.Alert{{
		ID:        "soon-2026-10-19-read",
		Condition: observability.ConditionStartingSoon,
		Severity:  observability.SeverityLow,
		Message:   fmt.Sprintf("lead %s", lead),
	}}
}

func resetRemindFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { remindLead, remindNotify = 0, false })
}

func TestRemindCmd_UsesConfiguredLead(t *testing.T) {
	setupServices(t)
	resetRemindFlags(t)
	Config.Notifications.LeadMinutes = 15
	AlertEngine = &alertsMock{upcomingFn: soonAlerts}

	out := captureStdout(t, func() {
		if err := remindCmd.RunE(remindCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "lead 15m0s") {
		t.Errorf("expected configured lead in output:\n%s", out)
	}
}

func TestRemindCmd_NothingSoon(t *testing.T) {
	setupServices(t)
	resetRemindFlags(t)
	remindLead = 5
	AlertEngine = &alertsMock{}

	out := captureStdout(t, func() {
		if err := remindCmd.RunE(remindCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Nothing starts in the next 5 minute(s).") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRemindCmd_NotifyOnlyWhenEnabled(t *testing.T) {
	store := setupServices(t)
	resetRemindFlags(t)
	remindNotify = true
	AlertEngine = &alertsMock{upcomingFn: soonAlerts}

	sent := 0
	Notifier = &notifierMock{notifyFn: func(a []observability.Alert) error {
		sent += len(a)
		return nil
	}}

	out := captureStdout(t, func() {
		if err := remindCmd.RunE(remindCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if sent != 0 || !strings.Contains(out, "Notifications are off") {
		t.Errorf("expected nothing sent while notifications are off (sent %d):\n%s", sent, out)
	}

	Settings = core.NewSettingsManager(store, nil, true)
	if _, err := Settings.SetNotifications(true); err != nil {
		t.Fatalf("enabling notifications: %v", err)
	}
	captureStdout(t, func() {
		if err := remindCmd.RunE(remindCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if sent != 1 {
		t.Errorf("expected one reminder sent, got %d", sent)
	}
	if !store.State().Settings.NotificationsEnabled {
		t.Error("expected notifications to stay enabled")
	}
}

func TestRemindCmd_OutboxSendsEachReminderOnce(t *testing.T) {
	store := setupServices(t)
	resetRemindFlags(t)
	remindNotify = true
	AlertEngine = &alertsMock{upcomingFn: soonAlerts}
	Outbox = observability.NewOutbox(filepath.Join(BasePath, observability.OutboxFileName))
	Settings = core.NewSettingsManager(store, nil, true)
	if _, err := Settings.SetNotifications(true); err != nil {
		t.Fatalf("enabling notifications: %v", err)
	}

	sent := 0
	Notifier = &notifierMock{notifyFn: func(a []observability.Alert) error {
		sent += len(a)
		return nil
	}}

	for i := 0; i < 2; i++ {
		captureStdout(t, func() {
			if err := remindCmd.RunE(remindCmd, []string{}); err != nil {
				t.Errorf("run %d: unexpected error: %v", i, err)
			}
		})
	}
	if sent != 1 {
		t.Errorf("expected the reminder sent once across two runs, got %d", sent)
	}
}

func TestRemindCmd_OutboxQueuesFailedDelivery(t *testing.T) {
	store := setupServices(t)
	resetRemindFlags(t)
	remindNotify = true
	AlertEngine = &alertsMock{upcomingFn: soonAlerts}
	Outbox = observability.NewOutbox(filepath.Join(BasePath, observability.OutboxFileName))
	Settings = core.NewSettingsManager(store, nil, true)
	if _, err := Settings.SetNotifications(true); err != nil {
		t.Fatalf("enabling notifications: %v", err)
	}
	Notifier = &notifierMock{notifyFn: func([]observability.Alert) error {
		return errors.New("webhook down")
	}}

	var runErr error
	out := captureStdout(t, func() {
		runErr = remindCmd.RunE(remindCmd, []string{})
	})
	if runErr == nil {
		t.Fatal("expected delivery error")
	}
	if !strings.Contains(out, "Queued 1 reminder(s) for the next run.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	pending, err := Outbox.Pending()
	if err != nil || len(pending) != 1 {
		t.Errorf("Pending() = %v, %v; want one queued reminder", pending, err)
	}
}
