package observability

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// OutboxFileName is the name of the reminder outbox in the data directory.
const OutboxFileName = ".focus_outbox.json"

const (
	outboxRetries   = 3
	outboxBackoff   = 200 * time.Millisecond
	sentRetention   = 24 * time.Hour
	pendingLifetime = time.Hour
	outboxFilePerms = 0o644
)

// DeliveryResult reports what one Deliver call did.
type DeliveryResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Queued  int `json:"queued"`
	Expired int `json:"expired"`
}

// Outbox delivers reminders through a Notifier at most once per alert ID.
// Reminders that fail to send stay queued and go out with the next delivery,
// unless they were triggered more than an hour earlier, in which case they
// are dropped.
type Outbox interface {
	Deliver(n Notifier, alerts []Alert) (*DeliveryResult, error)
	Pending() ([]Alert, error)
}

type outboxState struct {
	Pending []Alert              `json:"pending,omitempty"`
	Sent    map[string]time.Time `json:"sent,omitempty"`
}

type fileOutbox struct {
	path  string
	mu    sync.Mutex
	now   func() time.Time
	sleep func(time.Duration)
}

// NewOutbox creates an Outbox persisted as JSON at path.
func NewOutbox(path string) Outbox {
	return &fileOutbox{path: path, now: time.Now, sleep: time.Sleep}
}

// Deliver sends the queued reminders plus any alerts not sent before as one
// notification. On failure the whole batch is queued and the error returned
// alongside the result.
func (o *fileOutbox) Deliver(n Notifier, alerts []Alert) (*DeliveryResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, err := o.load()
	if err != nil {
		return nil, err
	}
	now := o.now()
	for id, at := range st.Sent {
		if now.Sub(at) > sentRetention {
			delete(st.Sent, id)
		}
	}

	result := &DeliveryResult{}
	var batch []Alert
	queued := make(map[string]bool, len(st.Pending))
	for _, a := range st.Pending {
		if now.Sub(a.TriggeredAt) > pendingLifetime {
			result.Expired++
			continue
		}
		queued[a.ID] = true
		batch = append(batch, a)
	}
	st.Pending = batch
	for _, a := range alerts {
		if _, sent := st.Sent[a.ID]; sent || queued[a.ID] {
			result.Skipped++
			continue
		}
		queued[a.ID] = true
		batch = append(batch, a)
	}
	if len(batch) == 0 {
		return result, o.save(st)
	}

	if err := o.notify(n, batch); err != nil {
		st.Pending = batch
		result.Queued = len(batch)
		if saveErr := o.save(st); saveErr != nil {
			return result, saveErr
		}
		return result, fmt.Errorf("delivering %d reminder(s): %w", len(batch), err)
	}

	if st.Sent == nil {
		st.Sent = make(map[string]time.Time, len(batch))
	}
	for _, a := range batch {
		st.Sent[a.ID] = now
	}
	st.Pending = nil
	result.Sent = len(batch)
	return result, o.save(st)
}

// notify retries with exponential backoff.
func (o *fileOutbox) notify(n Notifier, batch []Alert) error {
	var lastErr error
	for attempt := 0; attempt < outboxRetries; attempt++ {
		if attempt > 0 {
			o.sleep(outboxBackoff << (attempt - 1))
		}
		if lastErr = n.Notify(batch); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// Pending returns the reminders waiting for the next delivery.
func (o *fileOutbox) Pending() ([]Alert, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, err := o.load()
	if err != nil {
		return nil, err
	}
	return st.Pending, nil
}

func (o *fileOutbox) load() (outboxState, error) {
	data, err := os.ReadFile(o.path)
	if err != nil {
		if os.IsNotExist(err) {
			return outboxState{}, nil
		}
		return outboxState{}, fmt.Errorf("loading outbox: %w", err)
	}
	if len(data) == 0 {
		return outboxState{}, nil
	}

	var st outboxState
	if err := json.Unmarshal(data, &st); err != nil {
		return outboxState{}, fmt.Errorf("parsing outbox: %w", err)
	}
	return st, nil
}

// save removes the file once nothing is pending or remembered.
func (o *fileOutbox) save(st outboxState) error {
	if len(st.Pending) == 0 && len(st.Sent) == 0 {
		if err := os.Remove(o.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing outbox: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling outbox: %w", err)
	}
	if err := os.WriteFile(o.path, data, outboxFilePerms); err != nil {
		return fmt.Errorf("writing outbox: %w", err)
	}
	return nil
}
