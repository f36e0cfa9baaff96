package settingsstore

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/mrlokans/readinglist/internal/database"
	"github.com/mrlokans/readinglist/internal/entities"
)

const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

const envThemeDefault = "THEME_DEFAULT"

// Priority: database > environment > default
type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// lookup resolves key through the database, then env, then def.
// It returns the value and which of the three supplied it.
func (s *SettingsStore) lookup(key, env, def string) (string, string) {
	setting, err := s.db.GetSetting(key)
	if err == nil && setting.Value != "" {
		return setting.Value, SourceDatabase
	}
	if envVal := os.Getenv(env); envVal != "" {
		return envVal, SourceEnvironment
	}
	return def, SourceDefault
}

func (s *SettingsStore) clear(keys ...string) error {
	for _, key := range keys {
		err := s.db.DeleteSetting(key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

type ThemeInfo struct {
	Theme  entities.Theme `json:"theme"`
	Source string         `json:"source"` // "database", "environment", or "default"
}

// GetThemeDefault returns the site-wide default theme. Unknown stored values
// fall through to the next source.
func (s *SettingsStore) GetThemeDefault() entities.Theme {
	return s.GetThemeDefaultInfo().Theme
}

func (s *SettingsStore) GetThemeDefaultInfo() ThemeInfo {
	if setting, err := s.db.GetSetting(entities.SettingKeyThemeDefault); err == nil {
		if theme, ok := entities.ParseTheme(setting.Value); ok {
			return ThemeInfo{Theme: theme, Source: SourceDatabase}
		}
	}
	if theme, ok := entities.ParseTheme(os.Getenv(envThemeDefault)); ok {
		return ThemeInfo{Theme: theme, Source: SourceEnvironment}
	}
	return ThemeInfo{Theme: entities.ThemeLight, Source: SourceDefault}
}

func (s *SettingsStore) SetThemeDefault(theme entities.Theme) error {
	return s.db.SetSetting(entities.SettingKeyThemeDefault, string(theme))
}

func (s *SettingsStore) ClearThemeDefault() error {
	return s.clear(entities.SettingKeyThemeDefault)
}
