package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

const (
	coachNotePrefix  = "Coach: "
	maxSummaryRunes  = 200
	summaryKeepRunes = 197
)

// NoteManager manages the quick notes list. Notes are stored newest first
// and are unique by text.
type NoteManager interface {
	List() []string
	Add(text string) error
	Remove(text string) error
	CaptureSummary(report CoachReport) (string, error)
	CaptureAction(action string) (string, error)
}

type noteManager struct {
	store  StateStore
	events EventLogger
}

// NewNoteManager creates a NoteManager. events may be nil.
func NewNoteManager(store StateStore, events EventLogger) NoteManager {
	return &noteManager{store: store, events: events}
}

func (nm *noteManager) List() []string {
	return nm.store.State().QuickNotes
}

// Add stores text at the top of the list. Blank notes are rejected and an
// exact duplicate is left where it is.
func (nm *noteManager) Add(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("adding note: text must not be empty")
	}

	err := nm.store.Mutate(func(s *models.State) error {
		for _, n := range s.QuickNotes {
			if n == text {
				return errUnchanged
			}
		}
		s.QuickNotes = append([]string{text}, s.QuickNotes...)
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("adding note: %w", err)
	}
	logEvent(nm.events, "note.added", map[string]any{"length": len(text)})
	return nil
}

func (nm *noteManager) Remove(text string) error {
	err := nm.store.Mutate(func(s *models.State) error {
		kept := make([]string, 0, len(s.QuickNotes))
		for _, n := range s.QuickNotes {
			if n != text {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(s.QuickNotes) {
			return ErrNoteNotFound
		}
		s.QuickNotes = kept
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing note: %w", err)
	}
	logEvent(nm.events, "note.removed", nil)
	return nil
}

// CaptureSummary saves the report summary as a coach note, shortened to
// 200 characters, and returns the stored text.
func (nm *noteManager) CaptureSummary(report CoachReport) (string, error) {
	note := coachNotePrefix + truncateSummary(report.Summary)
	if err := nm.Add(note); err != nil {
		return "", err
	}
	return note, nil
}

// CaptureAction saves a single coach action as a note.
func (nm *noteManager) CaptureAction(action string) (string, error) {
	note := coachNotePrefix + strings.TrimSpace(action)
	if err := nm.Add(note); err != nil {
		return "", err
	}
	return note, nil
}

func truncateSummary(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryRunes {
		return s
	}
	return string(r[:summaryKeepRunes]) + "…"
}
