// Package core contains the business logic for Focus Flow: daily
// aggregation, the coach, status tracking with coin effects, the weekly
// planner, quick notes, settings and configuration.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/focus-flow/pkg/models"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the configuration file in the data directory.
const ConfigFileName = ".focusconfig"

// ConfigurationManager defines the interface for loading and validating the
// .focusconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// .focusconfig from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DefaultCoachMode:     string(CoachMomentum),
		SkipPenalty:          5,
		WeeklyEditLimit:      3,
		WidgetRefreshSeconds: 30,
		Notifications: models.NotificationConfig{
			LeadMinutes: 5,
		},
		Alerts: models.AlertConfig{
			OverdueCount:           2,
			PenaltyCoins:           10,
			EveningProgressPercent: 50,
			StalledHours:           3,
		},
	}
}

// LoadGlobalConfig reads .focusconfig from the base path. If the file does
// not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("coach.default_mode", cfg.DefaultCoachMode)
	v.SetDefault("coins.skip_penalty", cfg.SkipPenalty)
	v.SetDefault("planner.weekly_edit_limit", cfg.WeeklyEditLimit)
	v.SetDefault("widget.refresh_seconds", cfg.WidgetRefreshSeconds)
	v.SetDefault("notifications.lead_minutes", cfg.Notifications.LeadMinutes)
	v.SetDefault("notifications.slack.webhook_url", "")
	v.SetDefault("alerts.overdue_count", cfg.Alerts.OverdueCount)
	v.SetDefault("alerts.penalty_coins", cfg.Alerts.PenaltyCoins)
	v.SetDefault("alerts.evening_progress_percent", cfg.Alerts.EveningProgressPercent)
	v.SetDefault("alerts.stalled_hours", cfg.Alerts.StalledHours)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.DefaultCoachMode = v.GetString("coach.default_mode")
	cfg.SkipPenalty = v.GetInt("coins.skip_penalty")
	cfg.WeeklyEditLimit = v.GetInt("planner.weekly_edit_limit")
	cfg.WidgetRefreshSeconds = v.GetInt("widget.refresh_seconds")
	cfg.Notifications.LeadMinutes = v.GetInt("notifications.lead_minutes")
	cfg.Notifications.SlackWebhookURL = v.GetString("notifications.slack.webhook_url")
	cfg.Alerts.OverdueCount = v.GetInt("alerts.overdue_count")
	cfg.Alerts.PenaltyCoins = v.GetInt("alerts.penalty_coins")
	cfg.Alerts.EveningProgressPercent = v.GetInt("alerts.evening_progress_percent")
	cfg.Alerts.StalledHours = v.GetInt("alerts.stalled_hours")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns
// one error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if _, err := ParseCoachMode(cfg.DefaultCoachMode); err != nil {
		errs = append(errs, fmt.Sprintf("coach.default_mode %q is invalid, must be one of: momentum, balance, reset", cfg.DefaultCoachMode))
	}
	if cfg.SkipPenalty < 0 {
		errs = append(errs, fmt.Sprintf("coins.skip_penalty must be non-negative, got %d", cfg.SkipPenalty))
	}
	if cfg.WeeklyEditLimit < 0 {
		errs = append(errs, fmt.Sprintf("planner.weekly_edit_limit must be non-negative, got %d", cfg.WeeklyEditLimit))
	}
	if cfg.WidgetRefreshSeconds < 1 {
		errs = append(errs, fmt.Sprintf("widget.refresh_seconds must be at least 1, got %d", cfg.WidgetRefreshSeconds))
	}
	if cfg.Notifications.LeadMinutes < 0 || cfg.Notifications.LeadMinutes > 120 {
		errs = append(errs, fmt.Sprintf("notifications.lead_minutes %d is invalid, must be between 0 and 120", cfg.Notifications.LeadMinutes))
	}
	if url := cfg.Notifications.SlackWebhookURL; url != "" && !strings.HasPrefix(url, "https://") {
		errs = append(errs, "notifications.slack.webhook_url must be an https URL")
	}
	if cfg.Alerts.OverdueCount < 1 {
		errs = append(errs, fmt.Sprintf("alerts.overdue_count must be at least 1, got %d", cfg.Alerts.OverdueCount))
	}
	if cfg.Alerts.PenaltyCoins < 1 {
		errs = append(errs, fmt.Sprintf("alerts.penalty_coins must be at least 1, got %d", cfg.Alerts.PenaltyCoins))
	}
	if p := cfg.Alerts.EveningProgressPercent; p < 0 || p > 100 {
		errs = append(errs, fmt.Sprintf("alerts.evening_progress_percent %d is invalid, must be between 0 and 100", p))
	}
	if cfg.Alerts.StalledHours < 1 {
		errs = append(errs, fmt.Sprintf("alerts.stalled_hours must be at least 1, got %d", cfg.Alerts.StalledHours))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// WriteDefaultConfig writes a .focusconfig holding the default values into
// basePath unless one already exists. It reports whether a file was written.
func WriteDefaultConfig(basePath string) (bool, error) {
	path := filepath.Join(basePath, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", ConfigFileName, err)
	}

	cfg := DefaultGlobalConfig()
	doc := map[string]any{
		"coach":   map[string]any{"default_mode": cfg.DefaultCoachMode},
		"coins":   map[string]any{"skip_penalty": cfg.SkipPenalty},
		"planner": map[string]any{"weekly_edit_limit": cfg.WeeklyEditLimit},
		"widget":  map[string]any{"refresh_seconds": cfg.WidgetRefreshSeconds},
		"notifications": map[string]any{
			"lead_minutes": cfg.Notifications.LeadMinutes,
			"slack":        map[string]any{"webhook_url": ""},
		},
		"alerts": map[string]any{
			"overdue_count":            cfg.Alerts.OverdueCount,
			"penalty_coins":            cfg.Alerts.PenaltyCoins,
			"evening_progress_percent": cfg.Alerts.EveningProgressPercent,
			"stalled_hours":            cfg.Alerts.StalledHours,
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", ConfigFileName, err)
	}

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return false, fmt.Errorf("creating %s: %w", basePath, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", ConfigFileName, err)
	}
	return true, nil
}
