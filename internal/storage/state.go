// Package storage persists Focus Flow state as a single YAML document and
// notifies observers when it changes on disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/valter-silva-au/focus-flow/pkg/models"
	"gopkg.in/yaml.v3"
)

// StateFileName is the name of the state file in the data directory.
const StateFileName = "state.yaml"

// StateManager defines the interface for the persisted state blob.
type StateManager interface {
	// Load hydrates the in-memory state from disk. A missing file yields the
	// default state.
	Load() error
	// Save writes the in-memory state to disk.
	Save() error
	// Hydrated reports whether Load has completed successfully.
	Hydrated() bool
	// State returns a deep copy of the in-memory state.
	State() models.State
	// Mutate locks the state file, reloads it, applies fn and saves. Nothing
	// is written when fn returns an error.
	Mutate(fn func(*models.State) error) error
	// Path returns the location of the state file.
	Path() string
}

type fileStateManager struct {
	basePath string

	mu       sync.RWMutex
	data     models.State
	hydrated bool
}

// NewStateManager creates a StateManager backed by state.yaml in basePath.
func NewStateManager(basePath string) StateManager {
	return &fileStateManager{
		basePath: basePath,
		data:     models.DefaultState(),
	}
}

func (m *fileStateManager) Path() string {
	return filepath.Join(m.basePath, StateFileName)
}

func (m *fileStateManager) lockPath() string {
	return m.Path() + ".lock"
}

func (m *fileStateManager) Load() error {
	s, err := m.read()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = s
	m.hydrated = true
	m.mu.Unlock()
	return nil
}

func (m *fileStateManager) Save() error {
	m.mu.RLock()
	s := cloneState(m.data)
	m.mu.RUnlock()

	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving state: creating directory: %w", err)
	}
	unlock, err := lockFile(m.lockPath())
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer func() { _ = unlock() }()

	return m.write(s)
}

func (m *fileStateManager) Hydrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hydrated
}

func (m *fileStateManager) State() models.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneState(m.data)
}

func (m *fileStateManager) Mutate(fn func(*models.State) error) error {
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving state: creating directory: %w", err)
	}
	unlock, err := lockFile(m.lockPath())
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer func() { _ = unlock() }()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.read()
	if err != nil {
		return err
	}
	if err := fn(&current); err != nil {
		return err
	}
	normalizeState(&current)
	if err := m.write(current); err != nil {
		return err
	}
	m.data = current
	m.hydrated = true
	return nil
}

// read decodes the state file; the caller handles locking.
func (m *fileStateManager) read() (models.State, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultState(), nil
		}
		return models.State{}, fmt.Errorf("loading state: %w", err)
	}

	var s models.State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return models.State{}, fmt.Errorf("loading state: parsing YAML: %w", err)
	}
	normalizeState(&s)
	return s, nil
}

// write replaces the state file through a temporary file so readers never
// observe a partial document.
func (m *fileStateManager) write(s models.State) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("saving state: marshaling YAML: %w", err)
	}
	tmp := m.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("saving state: writing file: %w", err)
	}
	if err := os.Rename(tmp, m.Path()); err != nil {
		return fmt.Errorf("saving state: replacing file: %w", err)
	}
	return nil
}

// normalizeState fills zero values left by older or hand-edited files.
func normalizeState(s *models.State) {
	if s.Version == "" {
		s.Version = models.StateVersion
	}
	if s.WeeklyPlan == nil {
		s.WeeklyPlan = []models.WeeklyTask{}
	}
	if s.DailyLogs == nil {
		s.DailyLogs = make(map[string]models.DailyLog)
	}
	if s.CoinLedger == nil {
		s.CoinLedger = []models.CoinLedgerEntry{}
	}
	if s.QuickNotes == nil {
		s.QuickNotes = []string{}
	}
	if s.Settings.Theme == "" {
		s.Settings.Theme = models.ThemeOcean
	}
}

func cloneState(s models.State) models.State {
	out := s
	out.WeeklyPlan = slices.Clone(s.WeeklyPlan)
	out.CoinLedger = slices.Clone(s.CoinLedger)
	out.QuickNotes = slices.Clone(s.QuickNotes)
	out.DailyLogs = make(map[string]models.DailyLog, len(s.DailyLogs))
	for k, v := range s.DailyLogs {
		v.Tasks = slices.Clone(v.Tasks)
		out.DailyLogs[k] = v
	}
	return out
}
