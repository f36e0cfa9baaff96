package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/tasks"
)

type fakeQueue struct {
	enqueued []tasks.ImportFixtureTask
	err      error
	statuses map[string]backlite.TaskStatus
}

func (q *fakeQueue) EnqueueImportFixture(task tasks.ImportFixtureTask) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, task)
	return "task-1", nil
}

func (q *fakeQueue) Status(_ context.Context, id string) (backlite.TaskStatus, error) {
	if q.err != nil {
		return backlite.TaskStatusNotFound, q.err
	}
	status, ok := q.statuses[id]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

var fixtureBooks = []entities.Book{
	{ID: "b1", Title: "Dune", Author: "Frank Herbert", Year: 1965, Pages: 412, Rating: 4.5},
	{ID: "b2", Title: "Emma", Author: "Jane Austen", Year: 1815, Pages: 474, Rating: 4, Completed: true},
}

func encodeFixture(t *testing.T, books []entities.Book) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fixture.Encode(&buf, books))
	return buf.String()
}

func TestImport_Body(t *testing.T) {
	t.Run("merges fixture and records the import", func(t *testing.T) {
		env := newTestEnv(t)
		env.seed(t, duneInput())

		w := env.sendJSON(http.MethodPost, "/api/library/import", encodeFixture(t, fixtureBooks))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[ImportResponse](t, w)
		assert.Equal(t, entities.ImportStatusCompleted, resp.Session.Status)
		assert.Equal(t, 2, resp.Session.Created)
		assert.Equal(t, 3, resp.Shelves.Total)

		history, err := env.db.ListImportSessions(0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, entities.ImportSourceUpload, history[0].Source)
	})

	t.Run("replace mode drops books missing from the fixture", func(t *testing.T) {
		env := newTestEnv(t)
		env.seed(t, duneInput())

		w := env.sendJSON(http.MethodPost, "/api/library/import?mode=replace", encodeFixture(t, fixtureBooks))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, decode[ImportResponse](t, w).Session.Removed)
		assert.Equal(t, fixtureBooks, env.ctrl.Store().All())
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.sendJSON(http.MethodPost, "/api/library/import?mode=append", "[]")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed fixture", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.sendJSON(http.MethodPost, "/api/library/import", `[{"id":"x","title":"Dune"`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeMalformedFixture, decode[ErrorResponse](t, w).Code)
	})

	t.Run("invalid batch is all-or-nothing", func(t *testing.T) {
		env := newTestEnv(t)
		seeded := env.seed(t, duneInput())
		bad := append([]entities.Book{}, fixtureBooks...)
		bad = append(bad, entities.Book{ID: "b1", Title: "Dup", Author: "Someone"})

		w := env.sendJSON(http.MethodPost, "/api/library/import", encodeFixture(t, bad))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidBatch, decode[ErrorResponse](t, w).Code)
		assert.Equal(t, seeded, env.ctrl.Store().All())

		history, err := env.db.ListImportSessions(0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, entities.ImportStatusFailed, history[0].Status)
	})
}

func TestImport_Multipart(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "books.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(encodeFixture(t, fixtureBooks)))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("mode", "replace"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/library/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ImportResponse](t, w)
	assert.Equal(t, "books.json", resp.Session.Location)
	assert.Equal(t, "replace", resp.Session.Mode)
	assert.Equal(t, 2, env.ctrl.Store().Len())
}

func TestImport_URL(t *testing.T) {
	t.Run("enqueues a task when the queue is enabled", func(t *testing.T) {
		queue := &fakeQueue{}
		env := newTestEnv(t, func(cfg *RouterConfig) { cfg.TaskQueue = queue })

		w := env.sendJSON(http.MethodPost, "/api/library/import/url", map[string]string{
			"url": "https://example.com/books.json", "mode": "replace",
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.enqueued, 1)
		assert.Equal(t, tasks.ImportFixtureTask{URL: "https://example.com/books.json", Mode: "replace"}, queue.enqueued[0])
		assert.Contains(t, w.Body.String(), "task-1")
		assert.Equal(t, 0, env.ctrl.Store().Len())
	})

	t.Run("imports inline without a queue", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = fixture.Encode(w, fixtureBooks)
		}))
		defer server.Close()
		env := newTestEnv(t, func(cfg *RouterConfig) { cfg.HTTPClient = server.Client() })

		w := env.sendJSON(http.MethodPost, "/api/library/import/url", map[string]string{"url": server.URL + "/books.json"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, fixtureBooks, env.ctrl.Store().All())
	})

	t.Run("reports upstream failures as bad gateway", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()
		env := newTestEnv(t)

		w := env.sendJSON(http.MethodPost, "/api/library/import/url", map[string]string{"url": server.URL})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 0, env.ctrl.Store().Len())
	})

	t.Run("validates url", func(t *testing.T) {
		env := newTestEnv(t)

		for _, raw := range []string{"", "ftp://example.com/x.json", "not a url", "http://"} {
			w := env.sendJSON(http.MethodPost, "/api/library/import/url", map[string]string{"url": raw})
			assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		}
	})

	t.Run("returns 500 when enqueue fails", func(t *testing.T) {
		queue := &fakeQueue{err: errors.New("db locked")}
		env := newTestEnv(t, func(cfg *RouterConfig) { cfg.TaskQueue = queue })

		w := env.sendJSON(http.MethodPost, "/api/library/import/url", map[string]string{"url": "https://example.com/b.json"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db locked")
	})
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	books := env.seed(t, duneInput(), entities.BookInput{Title: "Emma", Author: "Jane Austen", Completed: true})

	w := env.get("/api/library/export")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	decoded, err := fixture.DecodeBytes(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, books, decoded)
}

func TestImportHistory(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		w := env.sendJSON(http.MethodPost, "/api/library/import", "[]")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.get("/api/imports?limit=2")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Imports []entities.ImportSession `json:"imports"`
		Count   int                      `json:"count"`
	}](t, w)
	assert.Equal(t, 2, resp.Count)

	assert.Equal(t, http.StatusBadRequest, env.get("/api/imports?limit=-1").Code)
}
