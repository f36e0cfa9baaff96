package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/settingsstore"
	"github.com/mrlokans/readinglist/internal/tasks"
)

// Each controller depends on the narrowest interface it needs. The book
// controllers use *controller.Controller directly since it is in-memory and
// cheap to build in tests.

// BulkImporter applies whole fixtures to the library.
// Implemented by *services.ImportService.
type BulkImporter interface {
	ImportBooks(req services.ImportRequest, books []entities.Book) (*entities.ImportSession, error)
	ImportFrom(ctx context.Context, req services.ImportRequest, src fixture.Source) (*entities.ImportSession, error)
}

// ImportHistory lists recorded bulk loads.
type ImportHistory interface {
	ListImportSessions(limit int) ([]entities.ImportSession, error)
}

// ThemeSettings stores the site-wide default theme.
type ThemeSettings interface {
	GetThemeDefaultInfo() settingsstore.ThemeInfo
	SetThemeDefault(theme entities.Theme) error
	ClearThemeDefault() error
}

// FixtureTaskQueue enqueues asynchronous fixture imports.
// Implemented by *tasks.Client.
type FixtureTaskQueue interface {
	EnqueueImportFixture(task tasks.ImportFixtureTask) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// FixtureSyncSettings reads and writes the scheduled import configuration.
// Implemented by *settingsstore.SettingsStore.
type FixtureSyncSettings interface {
	GetFixtureSyncConfig() settingsstore.FixtureSyncConfig
	GetFixtureSyncConfigInfo() settingsstore.FixtureSyncConfigInfo
	GetFixtureSyncStatus() settingsstore.FixtureSyncStatus
	SetFixtureSyncEnabled(enabled bool) error
	SetFixtureSyncURL(url string) error
	SetFixtureSyncSchedule(schedule string) error
	SetFixtureSyncMode(mode library.LoadMode) error
	ClearFixtureSyncSettings() error
}

// FixtureSyncRunner controls the scheduled import.
// Implemented by *scheduler.FixtureSyncScheduler.
type FixtureSyncRunner interface {
	RunNow() error
	Reschedule() error
	IsRunning() bool
	IsSyncing() bool
	GetNextRunTime() *time.Time
}
