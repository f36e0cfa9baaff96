package tasks

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
)

// ImportFixtureQueue is the queue name for URL fixture imports.
const ImportFixtureQueue = "import_fixture"

// ImportFixtureTask downloads a fixture and bulk loads it into the library.
type ImportFixtureTask struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

// Config returns the default queue configuration for fixture imports. A
// failed import is not retried. NewImportFixtureQueue applies the client's
// timeout and retention on top.
func (t ImportFixtureTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportFixtureQueue,
		MaxAttempts: 1,
		Timeout:     DefaultConfig().TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportFixtureProcessor creates a processor function for ImportFixtureTask.
func ImportFixtureProcessor(importer *services.ImportService, httpClient *http.Client, fetchTimeout time.Duration) backlite.QueueProcessor[ImportFixtureTask] {
	return func(ctx context.Context, task ImportFixtureTask) error {
		if importer == nil {
			return fmt.Errorf("importer not configured")
		}

		mode, ok := library.ParseLoadMode(task.Mode)
		if !ok {
			return fmt.Errorf("unknown load mode %q", task.Mode)
		}

		if fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
		}

		session, err := importer.ImportFrom(ctx, services.ImportRequest{
			Source:   entities.ImportSourceURL,
			Location: task.URL,
			Mode:     mode,
		}, fixture.URLSource(httpClient, task.URL))
		if err != nil {
			return fmt.Errorf("import fixture %s: %w", task.URL, err)
		}

		log.Printf("[TASK] Imported fixture %s: created=%d replaced=%d removed=%d",
			task.URL, session.Created, session.Replaced, session.Removed)
		return nil
	}
}

// NewImportFixtureQueue creates a backlite queue for fixture imports, bounded
// by cfg.TaskTimeout per run and cfg.FetchTimeout per download.
func NewImportFixtureQueue(importer *services.ImportService, httpClient *http.Client, cfg Config) backlite.Queue {
	q := backlite.NewQueue(ImportFixtureProcessor(importer, httpClient, cfg.FetchTimeout))

	qc := q.Config()
	if cfg.TaskTimeout > 0 {
		qc.Timeout = cfg.TaskTimeout
	}
	if cfg.RetentionDuration > 0 && qc.Retention != nil {
		qc.Retention.Duration = cfg.RetentionDuration
	}
	return q
}

// EnqueueImportFixture adds a fixture import to the queue and returns its task id.
func (c *Client) EnqueueImportFixture(task ImportFixtureTask) (string, error) {
	ids, err := c.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue fixture import: %w", err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue fixture import: no task id returned")
	}
	return ids[0], nil
}
