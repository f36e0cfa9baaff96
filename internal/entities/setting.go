package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyThemeDefault = "theme_default"

	// Fixture sync settings
	SettingKeyFixtureSyncEnabled     = "fixture_sync_enabled"
	SettingKeyFixtureSyncURL         = "fixture_sync_url"
	SettingKeyFixtureSyncSchedule    = "fixture_sync_schedule"
	SettingKeyFixtureSyncMode        = "fixture_sync_mode"
	SettingKeyFixtureSyncLastAt      = "fixture_sync_last_at"
	SettingKeyFixtureSyncLastStatus  = "fixture_sync_last_status"
	SettingKeyFixtureSyncLastMessage = "fixture_sync_last_message"
)

// Theme is the page colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named by s, or false for anything else.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
