package settingsstore

import (
	"strconv"
	"time"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/library"
)

const (
	envFixtureSyncEnabled  = "FIXTURE_SYNC_ENABLED"
	envFixtureSyncURL      = "FIXTURE_SYNC_URL"
	envFixtureSyncSchedule = "FIXTURE_SYNC_SCHEDULE"
	envFixtureSyncMode     = "FIXTURE_SYNC_MODE"

	// DefaultFixtureSyncSchedule runs the sync once a day at 03:00.
	DefaultFixtureSyncSchedule = "0 3 * * *"
)

// FixtureSyncConfig is the effective configuration of the scheduled fixture import.
type FixtureSyncConfig struct {
	Enabled  bool             `json:"enabled"`
	URL      string           `json:"url"`
	Schedule string           `json:"schedule"`
	Mode     library.LoadMode `json:"mode"`
}

// FixtureSyncConfigInfo includes source information for each field
type FixtureSyncConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"`

	URL       string `json:"url"`
	URLSource string `json:"url_source"`

	Schedule       string `json:"schedule"`
	ScheduleSource string `json:"schedule_source"`

	Mode       library.LoadMode `json:"mode"`
	ModeSource string           `json:"mode_source"`
}

// FixtureSyncStatus is the outcome of the last scheduled import.
type FixtureSyncStatus struct {
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	Status     string     `json:"status,omitempty"` // "success", "failed", "running", ""
	Message    string     `json:"message,omitempty"`
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

func (s *SettingsStore) GetFixtureSyncEnabled() bool {
	v, _ := s.lookup(entities.SettingKeyFixtureSyncEnabled, envFixtureSyncEnabled, "false")
	return parseBool(v)
}

func (s *SettingsStore) SetFixtureSyncEnabled(enabled bool) error {
	return s.db.SetSetting(entities.SettingKeyFixtureSyncEnabled, strconv.FormatBool(enabled))
}

func (s *SettingsStore) GetFixtureSyncURL() string {
	v, _ := s.lookup(entities.SettingKeyFixtureSyncURL, envFixtureSyncURL, "")
	return v
}

func (s *SettingsStore) SetFixtureSyncURL(url string) error {
	return s.db.SetSetting(entities.SettingKeyFixtureSyncURL, url)
}

func (s *SettingsStore) GetFixtureSyncSchedule() string {
	v, _ := s.lookup(entities.SettingKeyFixtureSyncSchedule, envFixtureSyncSchedule, DefaultFixtureSyncSchedule)
	return v
}

func (s *SettingsStore) SetFixtureSyncSchedule(schedule string) error {
	return s.db.SetSetting(entities.SettingKeyFixtureSyncSchedule, schedule)
}

// GetFixtureSyncMode returns how a scheduled import combines with the
// library. Unknown stored values fall back to merge.
func (s *SettingsStore) GetFixtureSyncMode() library.LoadMode {
	mode, _ := s.fixtureSyncMode()
	return mode
}

func (s *SettingsStore) fixtureSyncMode() (library.LoadMode, string) {
	v, source := s.lookup(entities.SettingKeyFixtureSyncMode, envFixtureSyncMode, string(library.LoadModeMerge))
	mode, ok := library.ParseLoadMode(v)
	if !ok {
		return library.LoadModeMerge, SourceDefault
	}
	return mode, source
}

func (s *SettingsStore) SetFixtureSyncMode(mode library.LoadMode) error {
	return s.db.SetSetting(entities.SettingKeyFixtureSyncMode, string(mode))
}

func (s *SettingsStore) GetFixtureSyncConfig() FixtureSyncConfig {
	return FixtureSyncConfig{
		Enabled:  s.GetFixtureSyncEnabled(),
		URL:      s.GetFixtureSyncURL(),
		Schedule: s.GetFixtureSyncSchedule(),
		Mode:     s.GetFixtureSyncMode(),
	}
}

func (s *SettingsStore) GetFixtureSyncConfigInfo() FixtureSyncConfigInfo {
	enabled, enabledSource := s.lookup(entities.SettingKeyFixtureSyncEnabled, envFixtureSyncEnabled, "false")
	url, urlSource := s.lookup(entities.SettingKeyFixtureSyncURL, envFixtureSyncURL, "")
	schedule, scheduleSource := s.lookup(entities.SettingKeyFixtureSyncSchedule, envFixtureSyncSchedule, DefaultFixtureSyncSchedule)
	mode, modeSource := s.fixtureSyncMode()

	return FixtureSyncConfigInfo{
		Enabled:        parseBool(enabled),
		EnabledSource:  enabledSource,
		URL:            url,
		URLSource:      urlSource,
		Schedule:       schedule,
		ScheduleSource: scheduleSource,
		Mode:           mode,
		ModeSource:     modeSource,
	}
}

func (s *SettingsStore) GetFixtureSyncStatus() FixtureSyncStatus {
	status := FixtureSyncStatus{}

	if setting, err := s.db.GetSetting(entities.SettingKeyFixtureSyncLastAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastSyncAt = &ts
		}
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyFixtureSyncLastStatus); err == nil {
		status.Status = setting.Value
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyFixtureSyncLastMessage); err == nil {
		status.Message = setting.Value
	}

	return status
}

func (s *SettingsStore) SetFixtureSyncStatus(status, message string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.db.SetSetting(entities.SettingKeyFixtureSyncLastAt, now); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyFixtureSyncLastStatus, status); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyFixtureSyncLastMessage, message)
}

// ClearFixtureSyncSettings clears all database overrides, reverting to env/default
func (s *SettingsStore) ClearFixtureSyncSettings() error {
	return s.clear(
		entities.SettingKeyFixtureSyncEnabled,
		entities.SettingKeyFixtureSyncURL,
		entities.SettingKeyFixtureSyncSchedule,
		entities.SettingKeyFixtureSyncMode,
	)
}
