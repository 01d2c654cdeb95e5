package models

// ThemeID identifies one of the built-in colour themes.
type ThemeID string

const (
	ThemeOcean    ThemeID = "ocean"
	ThemeSunset   ThemeID = "sunset"
	ThemeAurora   ThemeID = "aurora"
	ThemeMidnight ThemeID = "midnight"
)

// Settings holds user preferences that are changed from inside the app.
type Settings struct {
	Theme                ThemeID `yaml:"theme" json:"theme"`
	NotificationsEnabled bool    `yaml:"notifications_enabled" json:"notifications_enabled"`
	WidgetPinned         bool    `yaml:"widget_pinned" json:"widget_pinned"`
}

// WeekMeta tracks how many weekly plan edits were used in the ISO week
// identified by WeekKey.
type WeekMeta struct {
	WeekKey   string `yaml:"week_key" json:"week_key"`
	EditsUsed int    `yaml:"edits_used" json:"edits_used"`
}

// State is the whole persisted application state.
type State struct {
	Version    string              `yaml:"version"`
	WeeklyPlan []WeeklyTask        `yaml:"weekly_plan"`
	DailyLogs  map[string]DailyLog `yaml:"daily_logs"`
	CoinLedger []CoinLedgerEntry   `yaml:"coin_ledger"`
	CoinBank   int                 `yaml:"coin_bank"`
	QuickNotes []string            `yaml:"quick_notes"`
	Settings   Settings            `yaml:"settings"`
	WeekMeta   WeekMeta            `yaml:"week_meta"`
}

// StateVersion is written to every saved state file.
const StateVersion = "1.0"

// DefaultState returns the state used on first launch and after a full reset.
func DefaultState() State {
	return State{
		Version:    StateVersion,
		WeeklyPlan: []WeeklyTask{},
		DailyLogs:  make(map[string]DailyLog),
		CoinLedger: []CoinLedgerEntry{},
		QuickNotes: []string{},
		Settings:   Settings{Theme: ThemeOcean},
	}
}
