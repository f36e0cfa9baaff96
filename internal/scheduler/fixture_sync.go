package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/settingsstore"
)

// ErrSyncInProgress is returned by RunNow while a sync is already running.
var ErrSyncInProgress = errors.New("fixture sync already in progress")

// FixtureSyncScheduler periodically loads a remote fixture into the library.
type FixtureSyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	importer      *services.ImportService
	httpClient    *http.Client
	fetchTimeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewFixtureSyncScheduler creates a new scheduler instance. A zero
// fetchTimeout falls back to ten minutes per run.
func NewFixtureSyncScheduler(settingsStore *settingsstore.SettingsStore, importer *services.ImportService, httpClient *http.Client, fetchTimeout time.Duration) *FixtureSyncScheduler {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Minute
	}
	return &FixtureSyncScheduler{
		settingsStore: settingsStore,
		importer:      importer,
		httpClient:    httpClient,
		fetchTimeout:  fetchTimeout,
		cron:          cron.New(cron.WithParser(settingsstore.CronParser)),
	}
}

// Start begins the scheduler if sync is enabled and a URL is configured.
func (s *FixtureSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.settingsStore.GetFixtureSyncConfig()

	if !config.Enabled {
		log.Printf("[SCHEDULER] Fixture sync: disabled")
		return nil
	}
	if config.URL == "" {
		log.Printf("[SCHEDULER] Fixture sync: URL not configured, skipping")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	log.Printf("[SCHEDULER] Fixture sync: started with schedule '%s' (%s). Next run: %v",
		config.Schedule, settingsstore.GetCronDescription(config.Schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler. The lock is not
// held while waiting because runSync takes it on exit.
func (s *FixtureSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	entryID := s.entryID
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.cron.Remove(entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("[SCHEDULER] Fixture sync: stopped")
}

// Reschedule restarts the scheduler with the current settings.
func (s *FixtureSyncScheduler) Reschedule() error {
	s.Stop()
	return s.Start(context.Background())
}

// RunNow triggers an immediate sync in the background.
func (s *FixtureSyncScheduler) RunNow() error {
	if s.IsSyncing() {
		return ErrSyncInProgress
	}
	go s.runSync()
	return nil
}

func (s *FixtureSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *FixtureSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next sync will occur
func (s *FixtureSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync fetches the configured fixture and loads it as one batch in the
// configured mode.
func (s *FixtureSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] Fixture sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	config := s.settingsStore.GetFixtureSyncConfig()
	if config.URL == "" {
		log.Printf("[SCHEDULER] Fixture sync: skipped (URL not configured)")
		_ = s.settingsStore.SetFixtureSyncStatus("failed", "URL not configured")
		return
	}

	log.Printf("[SCHEDULER] Fixture sync: fetching %s (%s)", config.URL, config.Mode)
	_ = s.settingsStore.SetFixtureSyncStatus("running", "")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	session, err := s.importer.ImportFrom(ctx, services.ImportRequest{
		Source:   entities.ImportSourceSchedule,
		Location: config.URL,
		Mode:     config.Mode,
	}, fixture.URLSource(s.httpClient, config.URL))
	if err != nil {
		errMsg := fmt.Sprintf("Fixture import failed: %v", err)
		log.Printf("[SCHEDULER] Fixture sync: %s", errMsg)
		_ = s.settingsStore.SetFixtureSyncStatus("failed", errMsg)
		return
	}

	successMsg := fmt.Sprintf("Loaded %d books (created %d, replaced %d, removed %d) in %v",
		session.BooksInFile, session.Created, session.Replaced, session.Removed, time.Since(startTime).Round(time.Millisecond))
	log.Printf("[SCHEDULER] Fixture sync: %s", successMsg)
	_ = s.settingsStore.SetFixtureSyncStatus("success", successMsg)
}
