package scheduler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/database"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/settingsstore"
)

type harness struct {
	db        *database.Database
	settings  *settingsstore.SettingsStore
	ctrl      *controller.Controller
	scheduler *FixtureSyncScheduler
	server    *httptest.Server
}

func setup(t *testing.T) *harness {
	t.Helper()
	t.Setenv("FIXTURE_SYNC_ENABLED", "")
	t.Setenv("FIXTURE_SYNC_URL", "")
	t.Setenv("FIXTURE_SYNC_SCHEDULE", "")
	t.Setenv("FIXTURE_SYNC_MODE", "")

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	require.NoError(t, fixture.Encode(&buf, []entities.Book{
		{ID: "a", Title: "Dune", Author: "Herbert"},
		{ID: "b", Title: "Emma", Author: "Austen", Completed: true},
	}))
	body := buf.Bytes()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	settings := settingsstore.New(db)
	ctrl := controller.New(library.New())
	importer := services.NewImportService(ctrl, db)

	return &harness{
		db:        db,
		settings:  settings,
		ctrl:      ctrl,
		scheduler: NewFixtureSyncScheduler(settings, importer, server.Client(), time.Second),
		server:    server,
	}
}

func TestStartDisabled(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.scheduler.Start(context.Background()))
	assert.False(t, h.scheduler.IsRunning())
	assert.Nil(t, h.scheduler.GetNextRunTime())
}

func TestStartWithoutURL(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncEnabled(true))

	require.NoError(t, h.scheduler.Start(context.Background()))
	assert.False(t, h.scheduler.IsRunning())
}

func TestStartInvalidSchedule(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncEnabled(true))
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))
	require.NoError(t, h.settings.SetFixtureSyncSchedule("not a schedule"))

	assert.Error(t, h.scheduler.Start(context.Background()))
	assert.False(t, h.scheduler.IsRunning())
}

func TestStartStopReschedule(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncEnabled(true))
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))

	require.NoError(t, h.scheduler.Start(context.Background()))
	assert.True(t, h.scheduler.IsRunning())
	next := h.scheduler.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	require.NoError(t, h.settings.SetFixtureSyncSchedule("*/15 * * * *"))
	require.NoError(t, h.scheduler.Reschedule())
	assert.True(t, h.scheduler.IsRunning())

	h.scheduler.Stop()
	assert.False(t, h.scheduler.IsRunning())
	h.scheduler.Stop()
}

func TestStopOnContextCancel(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncEnabled(true))
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.scheduler.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !h.scheduler.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestRunSync(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))

	h.scheduler.runSync()

	assert.Equal(t, 2, h.ctrl.Store().Len())
	status := h.settings.GetFixtureSyncStatus()
	assert.Equal(t, "success", status.Status)
	assert.Contains(t, status.Message, "Loaded 2 books")

	sessions, err := h.db.ListImportSessions(0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, entities.ImportSourceSchedule, sessions[0].Source)
	assert.Equal(t, entities.ImportStatusCompleted, sessions[0].Status)
}

func TestRunSyncModes(t *testing.T) {
	local := []entities.Book{{ID: "a", Title: "Old Dune", Author: "Herbert"}, {ID: "z", Title: "Local", Author: "Me"}}

	t.Run("merge keeps books missing from the fixture", func(t *testing.T) {
		h := setup(t)
		require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))
		_, err := h.ctrl.Dispatch(controller.BulkLoad{Books: local, Mode: library.LoadModeReplace})
		require.NoError(t, err)

		h.scheduler.runSync()

		books := h.ctrl.Store().All()
		require.Len(t, books, 3)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "z", books[1].ID)
	})

	t.Run("replace drops books missing from the fixture", func(t *testing.T) {
		h := setup(t)
		require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))
		require.NoError(t, h.settings.SetFixtureSyncMode(library.LoadModeReplace))
		_, err := h.ctrl.Dispatch(controller.BulkLoad{Books: local, Mode: library.LoadModeReplace})
		require.NoError(t, err)

		h.scheduler.runSync()

		books := h.ctrl.Store().All()
		require.Len(t, books, 2)
		_, kept := h.ctrl.Store().Find("z")
		assert.False(t, kept)
		assert.Contains(t, h.settings.GetFixtureSyncStatus().Message, "removed 1")

		sessions, err := h.db.ListImportSessions(0)
		require.NoError(t, err)
		require.NotEmpty(t, sessions)
		assert.Equal(t, string(library.LoadModeReplace), sessions[0].Mode)
	})
}

func TestRunSyncFailure(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/missing.json"))

	h.scheduler.runSync()

	assert.Zero(t, h.ctrl.Store().Len())
	status := h.settings.GetFixtureSyncStatus()
	assert.Equal(t, "failed", status.Status)
	assert.Contains(t, status.Message, "404")
}

func TestRunSyncWithoutURL(t *testing.T) {
	h := setup(t)

	h.scheduler.runSync()

	assert.Equal(t, "failed", h.settings.GetFixtureSyncStatus().Status)
}

func TestRunNow(t *testing.T) {
	h := setup(t)
	require.NoError(t, h.settings.SetFixtureSyncURL(h.server.URL+"/books.json"))

	require.NoError(t, h.scheduler.RunNow())
	assert.Eventually(t, func() bool {
		return h.ctrl.Store().Len() == 2 && !h.scheduler.IsSyncing()
	}, 5*time.Second, 10*time.Millisecond)
}
