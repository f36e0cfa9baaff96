package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Session
		Tasks
		Fixture
		FixtureSync
		Theme
		CORS
		Demo
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Session struct {
		Secret        string // Auto-generated if empty; sessions then do not survive restarts
		Lifetime      time.Duration
		SecureCookies bool // Set to true when served over HTTPS
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Fixture struct {
		Path         string        // Fixture file loaded at startup
		URL          string        // Fixture URL loaded at startup and used by the scheduled sync
		Seed         bool          // Load the embedded demo fixture at startup
		FetchTimeout time.Duration // Zero means no timeout beyond the caller's context
	}
	FixtureSync struct {
		Enabled  bool
		URL      string // Separate from Fixture.URL; a startup seed does not imply a schedule
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Mode     string // "merge" or "replace"
	}
	Theme struct {
		Default string // "light" or "dark"
	}
	CORS struct {
		AllowedOrigins []string
	}
	Demo struct {
		Enabled bool // Seeded, read-only library
	}
)

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Session defaults
	v.SetDefault("session_secret", "")
	v.SetDefault("session_lifetime", "720h") // 30 days, theme preference outlives a visit
	v.SetDefault("secure_cookies", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_timeout", "2m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Fixture defaults
	v.SetDefault("fixture_path", "")
	v.SetDefault("fixture_url", "")
	v.SetDefault("fixture_seed", false)
	v.SetDefault("fixture_fetch_timeout", "0s")
	v.SetDefault("fixture_sync_enabled", false)
	v.SetDefault("fixture_sync_url", "")
	v.SetDefault("fixture_sync_schedule", "0 3 * * *")
	v.SetDefault("fixture_sync_mode", "merge")

	v.SetDefault("theme_default", "light")
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("demo_mode", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Fixture: Fixture{
			Path:         v.GetString("FIXTURE_PATH"),
			URL:          v.GetString("FIXTURE_URL"),
			Seed:         v.GetBool("FIXTURE_SEED"),
			FetchTimeout: v.GetDuration("FIXTURE_FETCH_TIMEOUT"),
		},
		FixtureSync: FixtureSync{
			Enabled:  v.GetBool("FIXTURE_SYNC_ENABLED"),
			URL:      v.GetString("FIXTURE_SYNC_URL"),
			Schedule: v.GetString("FIXTURE_SYNC_SCHEDULE"),
			Mode:     v.GetString("FIXTURE_SYNC_MODE"),
		},
		Theme: Theme{
			Default: v.GetString("THEME_DEFAULT"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
	}
}
