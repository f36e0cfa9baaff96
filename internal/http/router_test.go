package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/database"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/session"
	"github.com/mrlokans/readinglist/internal/settingsstore"
)

type testEnv struct {
	router   *gin.Engine
	ctrl     *controller.Controller
	db       *database.Database
	settings *settingsstore.SettingsStore
	cookies  []*http.Cookie
}

func duneInput() entities.BookInput {
	return entities.BookInput{Title: "Dune", Author: "Frank Herbert", Year: 1965, Pages: 412, Rating: 4.5}
}

// newTestEnv wires the full router against a temp database. CSRF is off;
// the session package tests cover it.
func newTestEnv(t *testing.T, mutate ...func(*RouterConfig)) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := session.NewManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)

	ctrl := controller.New(library.New())
	settings := settingsstore.New(db)

	cfg := RouterConfig{
		Controller:          ctrl,
		Importer:            services.NewImportService(ctrl, db),
		Database:            db,
		ImportHistory:       db,
		ThemeSettings:       settings,
		Sessions:            sessions,
		FixtureSyncSettings: settings,
		Version:             "test",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return &testEnv{
		router:   NewRouter(cfg),
		ctrl:     ctrl,
		db:       db,
		settings: settings,
	}
}

// do sends a request, carrying the session cookie between calls.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		r = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return e.do(req)
}

func (e *testEnv) seed(t *testing.T, inputs ...entities.BookInput) []entities.Book {
	t.Helper()
	books := make([]entities.Book, 0, len(inputs))
	for _, in := range inputs {
		out, err := e.ctrl.Dispatch(controller.CreateBook{Input: in})
		require.NoError(t, err)
		books = append(books, out.Book)
	}
	return books
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
