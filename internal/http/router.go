package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/demo"
	"github.com/mrlokans/readinglist/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies; optional ones left nil
// drop the routes that need them.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(session.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.Middleware())
	}

	// Demo mode needs the session to flash refused form posts
	var flashes demo.Flasher
	if cfg.Sessions != nil {
		flashes = cfg.Sessions
	}
	demoMode := demo.NewMiddleware(cfg.DemoMode, flashes)
	router.Use(demoMode.InjectContext())
	router.Use(demoMode.Handler())

	router.SetHTMLTemplate(parseTemplates())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Controller, cfg.Version)
	booksController := NewBooksController(cfg.Controller)
	uiController := NewUIController(cfg.Controller, cfg.Sessions, cfg.ThemeSettings)
	importController := NewImportController(cfg.Importer, cfg.Controller, cfg.ImportHistory, cfg.TaskQueue, cfg.HTTPClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// UI routes
	router.GET("/", uiController.LibraryPage)
	router.POST("/books", uiController.CreateBook)
	router.POST("/books/:id", uiController.UpdateBook)
	router.POST("/books/:id/toggle", uiController.ToggleRead)
	router.POST("/books/:id/delete", uiController.DeleteBook)

	// Books API endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.POST("/api/books/:id/toggle", booksController.ToggleRead)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/shelves", booksController.GetShelves)

	// Fixture import and export
	if cfg.Importer != nil {
		router.POST("/api/library/import", importController.Import)
		router.POST("/api/library/import/url", importController.ImportURL)
	}
	router.GET("/api/library/export", importController.Export)
	router.GET("/api/imports", importController.History)

	// Theme endpoints
	themeController := NewThemeController(cfg.Sessions, cfg.ThemeSettings)
	router.POST("/theme/toggle", themeController.Toggle)
	if cfg.ThemeSettings != nil {
		router.GET("/api/theme", themeController.GetTheme)
		router.PUT("/api/theme", themeController.SetDefault)
		router.DELETE("/api/theme", themeController.ClearDefault)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	// Scheduled fixture import settings
	if cfg.FixtureSyncSettings != nil {
		syncController := NewFixtureSyncController(cfg.FixtureSyncSettings, cfg.FixtureSync)
		router.GET("/api/sync/fixture", syncController.GetSettings)
		router.PUT("/api/sync/fixture", syncController.UpdateSettings)
		router.DELETE("/api/sync/fixture", syncController.ResetSettings)
		router.POST("/api/sync/fixture/run", syncController.SyncNow)
	}

	return router
}
