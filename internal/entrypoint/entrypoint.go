package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/database"
	http_controllers "github.com/mrlokans/readinglist/internal/http"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/scheduler"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/session"
	"github.com/mrlokans/readinglist/internal/settingsstore"
	"github.com/mrlokans/readinglist/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reading List v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settings := settingsstore.New(db)

	// The library lives in memory; every start begins empty unless a
	// fixture is configured.
	ctrl := controller.New(library.New())
	importer := services.NewImportService(ctrl, db)
	httpClient := &http.Client{Timeout: cfg.Fixture.FetchTimeout}

	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled: library writes are disabled")
		if cfg.Fixture.Path == "" && cfg.Fixture.URL == "" {
			cfg.Fixture.Seed = true
		}
	}

	startup, err := LoadStartupFixtures(context.Background(), importer, cfg.Fixture, httpClient)
	if err != nil {
		log.Fatalf("Failed to load startup fixtures: %v", err)
	}
	if startup != nil {
		log.Printf("Library ready with %d books", ctrl.Store().Len())
	}

	sessions, csrfSecret := initSessions(db, cfg.Session)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			FetchTimeout:      cfg.Fixture.FetchTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewImportFixtureQueue(importer, httpClient, taskCfg))

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	fixtureSync := scheduler.NewFixtureSyncScheduler(settings, importer, httpClient, cfg.Fixture.FetchTimeout)
	if err := fixtureSync.Start(context.Background()); err != nil {
		log.Printf("WARNING: Fixture sync scheduler not started: %v", err)
	}

	themeInfo := settings.GetThemeDefaultInfo()
	log.Printf("Default theme: %s (from %s)", themeInfo.Theme, themeInfo.Source)

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Controller:          ctrl,
		Importer:            importer,
		Database:            db,
		ImportHistory:       db,
		ThemeSettings:       settings,
		Sessions:            sessions,
		CSRFSecret:          csrfSecret,
		SecureCookies:       cfg.Session.SecureCookies,
		FixtureSyncSettings: settings,
		FixtureSync:         fixtureSync,
		HTTPClient:          httpClient,
		DemoMode:            cfg.Demo.Enabled,
		Version:             version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		fixtureSync.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(WithCORS(router, cfg.CORS.AllowedOrigins), cfg, onShutdown)
}

func initSessions(db *database.Database, cfg config.Session) (*session.Manager, []byte) {
	// Get underlying SQL DB for session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessions, err := session.NewManager(sqlDB, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret, generated, err := session.ResolveSecret(cfg.Secret)
	if err != nil {
		log.Fatalf("Failed to resolve CSRF secret: %v", err)
	}
	if generated {
		log.Printf("Generated session secret (set SESSION_SECRET to keep forms valid across restarts)")
	}
	return sessions, csrfSecret
}
