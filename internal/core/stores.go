package core

import (
	"errors"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// StateStore is the subset of storage.StateManager that core services need.
// Defining it here keeps core independent of the storage package.
type StateStore interface {
	// State returns a copy of the current state.
	State() models.State
	// Mutate applies fn to the freshest persisted state and saves the result.
	// If fn returns an error nothing is written.
	Mutate(fn func(*models.State) error) error
}

// Sentinel errors returned by core services.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrEditLimitReached = errors.New("weekly edit limit reached")
	ErrNoteNotFound     = errors.New("note not found")
	ErrUnknownTheme     = errors.New("unknown theme")
	ErrNotScheduled     = errors.New("task not scheduled on that day")
	ErrFutureDate       = errors.New("date is in the future")
)

// logEvent writes an event when a logger is configured. Event logging is
// best-effort and never fails the calling operation.
func logEvent(l EventLogger, eventType string, data map[string]any) {
	if l == nil {
		return
	}
	_ = l.LogEvent(eventType, data)
}
