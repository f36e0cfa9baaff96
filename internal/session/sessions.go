// Package session keeps per-browser state for the HTML pages: the chosen
// theme and one-shot flash messages. It also provides the CSRF and security
// header middleware for form posts.
package session

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/entities"
)

// Session data keys
const (
	KeyTheme = "theme"
	KeyFlash = "flash"
)

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager backed by sqlDB, which
// should be the *sql.DB underneath GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}

	sm.Cookie.Name = "readinglist_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true

	return &Manager{SessionManager: sm}, nil
}

// Theme returns the theme chosen in this browser, if any.
func (m *Manager) Theme(r *http.Request) (entities.Theme, bool) {
	return entities.ParseTheme(m.GetString(r.Context(), KeyTheme))
}

// SetTheme remembers theme for this browser.
func (m *Manager) SetTheme(r *http.Request, theme entities.Theme) {
	m.Put(r.Context(), KeyTheme, string(theme))
}

// Flash stores a message shown on the next page render.
func (m *Manager) Flash(r *http.Request, msg string) {
	m.Put(r.Context(), KeyFlash, msg)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(r *http.Request) string {
	return m.PopString(r.Context(), KeyFlash)
}
