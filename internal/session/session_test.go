package session

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupManager(t *testing.T) *Manager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)
	return sm
}

func sessionRouter(sm *Manager) *gin.Engine {
	router := gin.New()
	router.Use(sm.Middleware())
	router.POST("/theme/:name", func(c *gin.Context) {
		theme, ok := entities.ParseTheme(c.Param("name"))
		if !ok {
			c.Status(http.StatusBadRequest)
			return
		}
		sm.SetTheme(c.Request, theme)
		sm.Flash(c.Request, "Theme changed")
		c.Redirect(http.StatusSeeOther, "/")
	})
	router.GET("/", func(c *gin.Context) {
		theme, ok := sm.Theme(c.Request)
		if !ok {
			theme = "none"
		}
		c.String(http.StatusOK, string(theme)+"|"+sm.PopFlash(c.Request))
	})
	return router
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "readinglist_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestThemeAndFlashPersistAcrossRequests(t *testing.T) {
	sm := setupManager(t)
	router := sessionRouter(sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/theme/dark", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	cookie := sessionCookie(t, rr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "dark|Theme changed", rr.Body.String())

	// flash is one-shot, theme sticks
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "dark|", rr.Body.String())
}

func TestNoSessionWithoutCookie(t *testing.T) {
	sm := setupManager(t)
	router := sessionRouter(sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "none|", rr.Body.String())
	assert.Empty(t, rr.Result().Cookies(), "unmodified session writes no cookie")
}

func TestCookieSettings(t *testing.T) {
	sm := setupManager(t)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.Equal(t, time.Hour, sm.Lifetime)
}
