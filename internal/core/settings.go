package core

import (
	"fmt"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// ThemeInfo describes a built-in theme.
type ThemeInfo struct {
	ID          models.ThemeID `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Swatch      [2]string      `json:"swatch"`
}

// Themes returns the built-in themes in display order.
func Themes() []ThemeInfo {
	return []ThemeInfo{
		{ID: models.ThemeOcean, Label: "Ocean Pulse", Description: "Ko'k gradientlar va sokin neon effektlar.", Swatch: [2]string{"#3566ff", "#38bdf8"}},
		{ID: models.ThemeSunset, Label: "Sunset Flow", Description: "Issiq to'q sariq va pushti soyalar.", Swatch: [2]string{"#ff6b3c", "#ffbe6e"}},
		{ID: models.ThemeAurora, Label: "Aurora Breeze", Description: "Sovuq moviy va binafsha chiziqlar.", Swatch: [2]string{"#3aa2ff", "#c084fc"}},
		{ID: models.ThemeMidnight, Label: "Midnight Drive", Description: "Kechki tun va to'q binafsha yorqinligi.", Swatch: [2]string{"#5c4bff", "#1f1861"}},
	}
}

// LookupTheme returns the theme with the given id.
func LookupTheme(id models.ThemeID) (ThemeInfo, bool) {
	for _, t := range Themes() {
		if t.ID == id {
			return t, true
		}
	}
	return ThemeInfo{}, false
}

// Result reports the outcome of a settings change that can be refused
// without being an error.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// SettingsManager changes user settings and resets stored data.
type SettingsManager interface {
	Settings() models.Settings
	SetTheme(id models.ThemeID) (string, error)
	SetNotifications(enabled bool) (Result, error)
	SetWidgetPinned(pinned bool) error
	ResetWeekMeta() error
	ResetAllData() error
}

type settingsManager struct {
	store     StateStore
	events    EventLogger
	canNotify bool
}

// NewSettingsManager creates a SettingsManager. canNotify tells whether a
// notification channel is configured; enabling notifications without one
// is refused. events may be nil.
func NewSettingsManager(store StateStore, events EventLogger, canNotify bool) SettingsManager {
	return &settingsManager{store: store, events: events, canNotify: canNotify}
}

func (sm *settingsManager) Settings() models.Settings {
	return sm.store.State().Settings
}

// SetTheme activates a theme and returns a confirmation message. Selecting
// the active theme changes nothing.
func (sm *settingsManager) SetTheme(id models.ThemeID) (string, error) {
	theme, ok := LookupTheme(id)
	if !ok {
		return "", fmt.Errorf("setting theme: %w: %q", ErrUnknownTheme, id)
	}
	if sm.Settings().Theme == id {
		return "Tanlangan tema allaqachon qo'llanilmoqda.", nil
	}
	err := sm.store.Mutate(func(s *models.State) error {
		s.Settings.Theme = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("setting theme: %w", err)
	}
	logEvent(sm.events, "settings.changed", map[string]any{"theme": string(id)})
	return fmt.Sprintf("%s temasi faollashtirildi.", theme.Label), nil
}

// SetNotifications turns reminders on or off.
func (sm *settingsManager) SetNotifications(enabled bool) (Result, error) {
	if enabled && !sm.canNotify {
		return Result{Success: false, Reason: "Bildirishnoma kanali sozlanmagan: .focusconfig faylida notifications.slack.webhook_url ni kiriting."}, nil
	}
	err := sm.store.Mutate(func(s *models.State) error {
		s.Settings.NotificationsEnabled = enabled
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("setting notifications: %w", err)
	}
	logEvent(sm.events, "settings.changed", map[string]any{"notifications_enabled": enabled})
	return Result{Success: true}, nil
}

func (sm *settingsManager) SetWidgetPinned(pinned bool) error {
	err := sm.store.Mutate(func(s *models.State) error {
		s.Settings.WidgetPinned = pinned
		return nil
	})
	if err != nil {
		return fmt.Errorf("setting widget pin: %w", err)
	}
	logEvent(sm.events, "settings.changed", map[string]any{"widget_pinned": pinned})
	return nil
}

// ResetWeekMeta restores the full weekly edit allowance.
func (sm *settingsManager) ResetWeekMeta() error {
	err := sm.store.Mutate(func(s *models.State) error {
		s.WeekMeta = models.WeekMeta{}
		return nil
	})
	if err != nil {
		return fmt.Errorf("resetting week limit: %w", err)
	}
	logEvent(sm.events, "settings.changed", map[string]any{"week_meta": "reset"})
	return nil
}

// ResetAllData replaces the whole state with the first-launch defaults.
func (sm *settingsManager) ResetAllData() error {
	err := sm.store.Mutate(func(s *models.State) error {
		*s = models.DefaultState()
		return nil
	})
	if err != nil {
		return fmt.Errorf("resetting data: %w", err)
	}
	logEvent(sm.events, "data.reset", nil)
	return nil
}
