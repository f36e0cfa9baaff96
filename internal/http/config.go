package http

import (
	"net/http"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/database"
	"github.com/mrlokans/readinglist/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies left nil disable the
// routes that need them.
type RouterConfig struct {
	// Core dependencies
	Controller *controller.Controller
	Importer   BulkImporter

	// Persistence (health checks, import history, settings)
	Database      *database.Database
	ImportHistory ImportHistory
	ThemeSettings ThemeSettings

	// Sessions and CSRF for the HTML pages
	Sessions      *session.Manager
	CSRFSecret    []byte
	SecureCookies bool

	// Task queue client (optional)
	TaskQueue FixtureTaskQueue

	// Scheduled fixture import (optional)
	FixtureSyncSettings FixtureSyncSettings
	FixtureSync         FixtureSyncRunner

	// HTTP client for synchronous URL imports
	HTTPClient *http.Client

	// Read-only showcase mode
	DemoMode bool

	// Application info
	Version string
}
