package observability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

type funcNotifier func([]Alert) error

func (f funcNotifier) Notify(alerts []Alert) error { return f(alerts) }

func newTestOutbox(t *testing.T, now time.Time) (*fileOutbox, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), OutboxFileName)
	o := NewOutbox(path).(*fileOutbox)
	o.now = func() time.Time { return now }
	o.sleep = func(time.Duration) {}
	return o, path
}

func reminder(id string) Alert {
	return Alert{ID: id, Condition: ConditionStartingSoon, Severity: SeverityLow, Message: id, TriggeredAt: at(9, 0)}
}

func TestOutbox_SendsOnce(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	var sent []string
	n := funcNotifier(func(a []Alert) error {
		for _, x := range a {
			sent = append(sent, x.ID)
		}
		return nil
	})

	res, err := o.Deliver(n, []Alert{reminder("soon-a"), reminder("soon-b")})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Sent != 2 || res.Skipped != 0 {
		t.Errorf("first result = %+v, want 2 sent", res)
	}

	res, err = o.Deliver(n, []Alert{reminder("soon-a"), reminder("soon-c")})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Sent != 1 || res.Skipped != 1 {
		t.Errorf("second result = %+v, want 1 sent and 1 skipped", res)
	}
	if len(sent) != 3 {
		t.Errorf("notifier saw %v, want three distinct reminders", sent)
	}
}

func TestOutbox_QueuesFailuresAndRetriesLater(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	calls := 0
	failing := funcNotifier(func([]Alert) error {
		calls++
		return errors.New("webhook down")
	})

	res, err := o.Deliver(failing, []Alert{reminder("soon-a")})
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if calls != outboxRetries {
		t.Errorf("notifier called %d times, want %d", calls, outboxRetries)
	}
	if res.Queued != 1 {
		t.Errorf("Queued = %d, want 1", res.Queued)
	}
	pending, err := o.Pending()
	if err != nil || len(pending) != 1 {
		t.Fatalf("Pending() = %v, %v; want one queued reminder", pending, err)
	}

	var delivered []Alert
	ok := funcNotifier(func(a []Alert) error {
		delivered = a
		return nil
	})
	res, err = o.Deliver(ok, []Alert{reminder("soon-a"), reminder("soon-b")})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Sent != 2 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 2 sent and the re-listed reminder skipped", res)
	}
	if len(delivered) != 2 || delivered[0].ID != "soon-a" {
		t.Errorf("delivered = %v, want queued reminder first", delivered)
	}
	if pending, _ := o.Pending(); len(pending) != 0 {
		t.Errorf("Pending() = %v, want empty", pending)
	}
}

func TestOutbox_DropsStaleQueuedReminders(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	failing := funcNotifier(func([]Alert) error { return errors.New("webhook down") })
	if _, err := o.Deliver(failing, []Alert{reminder("soon-a")}); err == nil {
		t.Fatal("expected delivery error")
	}

	o.now = func() time.Time { return at(9, 0).Add(pendingLifetime + time.Minute) }
	var delivered []Alert
	ok := funcNotifier(func(a []Alert) error {
		delivered = a
		return nil
	})
	fresh := reminder("soon-b")
	fresh.TriggeredAt = o.now()
	res, err := o.Deliver(ok, []Alert{fresh})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Expired != 1 || res.Sent != 1 {
		t.Errorf("result = %+v, want 1 expired and 1 sent", res)
	}
	if len(delivered) != 1 || delivered[0].ID != "soon-b" {
		t.Errorf("delivered = %v, want only the fresh reminder", delivered)
	}
	if pending, _ := o.Pending(); len(pending) != 0 {
		t.Errorf("Pending() = %v, want empty", pending)
	}
}

func TestOutbox_KeepsRecentQueuedReminders(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	failing := funcNotifier(func([]Alert) error { return errors.New("webhook down") })
	if _, err := o.Deliver(failing, []Alert{reminder("soon-a")}); err == nil {
		t.Fatal("expected delivery error")
	}

	o.now = func() time.Time { return at(9, 0).Add(pendingLifetime - time.Minute) }
	res, err := o.Deliver(funcNotifier(func([]Alert) error { return nil }), nil)
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Expired != 0 || res.Sent != 1 {
		t.Errorf("result = %+v, want the queued reminder sent", res)
	}
}

func TestOutbox_RetryRecovers(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	var waits []time.Duration
	o.sleep = func(d time.Duration) { waits = append(waits, d) }
	calls := 0
	flaky := funcNotifier(func([]Alert) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})

	res, err := o.Deliver(flaky, []Alert{reminder("soon-a")})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if res.Sent != 1 {
		t.Errorf("Sent = %d, want 1", res.Sent)
	}
	if len(waits) != 2 || waits[0] != outboxBackoff || waits[1] != 2*outboxBackoff {
		t.Errorf("backoff = %v, want [%s %s]", waits, outboxBackoff, 2*outboxBackoff)
	}
}

func TestOutbox_ForgetsOldSends(t *testing.T) {
	o, _ := newTestOutbox(t, at(9, 0))
	n := funcNotifier(func([]Alert) error { return nil })
	if _, err := o.Deliver(n, []Alert{reminder("soon-a")}); err != nil {
		t.Fatal(err)
	}

	o.now = func() time.Time { return at(9, 0).Add(sentRetention + time.Minute) }
	res, err := o.Deliver(n, []Alert{reminder("soon-a")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Sent != 1 {
		t.Errorf("Sent = %d, want the reminder sent again after retention", res.Sent)
	}
}

func TestOutbox_NothingToSendLeavesNoFile(t *testing.T) {
	o, path := newTestOutbox(t, at(9, 0))
	called := false
	n := funcNotifier(func([]Alert) error {
		called = true
		return nil
	})

	res, err := o.Deliver(n, nil)
	if err != nil {
		t.Fatal(err)
	}
	if called || res.Sent != 0 {
		t.Errorf("expected no notification, got %+v", res)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no outbox file, stat err = %v", err)
	}
}

func TestOutbox_CorruptFile(t *testing.T) {
	o, path := newTestOutbox(t, at(9, 0))
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Pending(); err == nil {
		t.Error("expected parse error")
	}
	if _, err := o.Deliver(funcNotifier(func([]Alert) error { return nil }), nil); err == nil {
		t.Error("expected parse error from Deliver")
	}
}

// Feature: reminder outbox, Property 1: every reminder ID reaches the
// notifier exactly once no matter how often it is listed.
func TestOutbox_Property_ExactlyOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		path := filepath.Join(t.TempDir(), OutboxFileName)
		o := NewOutbox(path).(*fileOutbox)
		o.now = func() time.Time { return at(9, 0) }
		o.sleep = func(time.Duration) {}

		seen := make(map[string]int)
		n := funcNotifier(func(a []Alert) error {
			for _, x := range a {
				seen[x.ID]++
			}
			return nil
		})

		rounds := rapid.IntRange(1, 5).Draw(rt, "rounds")
		listed := make(map[string]bool)
		for r := 0; r < rounds; r++ {
			ids := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 0, 4).Draw(rt, "ids")
			var batch []Alert
			for _, id := range ids {
				listed[id] = true
				batch = append(batch, reminder(id))
			}
			if _, err := o.Deliver(n, batch); err != nil {
				rt.Fatalf("Deliver() error = %v", err)
			}
		}

		for id := range listed {
			if seen[id] != 1 {
				rt.Fatalf("reminder %s sent %d times", id, seen[id])
			}
		}
	})
}
