package models

// AlertConfig holds thresholds for the alert engine.
type AlertConfig struct {
	OverdueCount           int `yaml:"overdue_count" mapstructure:"overdue_count"`
	PenaltyCoins           int `yaml:"penalty_coins" mapstructure:"penalty_coins"`
	EveningProgressPercent int `yaml:"evening_progress_percent" mapstructure:"evening_progress_percent"`
	StalledHours           int `yaml:"stalled_hours" mapstructure:"stalled_hours"`
}

// NotificationConfig controls reminder delivery.
type NotificationConfig struct {
	LeadMinutes     int    `yaml:"lead_minutes" mapstructure:"lead_minutes"`
	SlackWebhookURL string `yaml:"slack_webhook_url,omitempty" mapstructure:"slack_webhook_url"`
}

// GlobalConfig holds settings read from .focusconfig via Viper.
type GlobalConfig struct {
	DefaultCoachMode     string             `yaml:"default_coach_mode" mapstructure:"default_coach_mode"`
	SkipPenalty          int                `yaml:"skip_penalty" mapstructure:"skip_penalty"`
	WeeklyEditLimit      int                `yaml:"weekly_edit_limit" mapstructure:"weekly_edit_limit"`
	WidgetRefreshSeconds int                `yaml:"widget_refresh_seconds" mapstructure:"widget_refresh_seconds"`
	Notifications        NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
	Alerts               AlertConfig        `yaml:"alerts" mapstructure:"alerts"`
}
