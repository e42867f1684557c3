package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/blob"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/cache"
	httpapi "github.com/aussiebroadwan/stepglobe/internal/stepglobe/http"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/notify"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/vision"
	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the StepGlobe backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	hasher     *cryptox.Hasher
	verifier   *tgauth.Verifier

	// optional backends, nil when not configured
	roster   *cache.RedisRoster
	blobs    *blob.Bucket
	vision   *vision.Gemini
	notifier *notify.Telegram

	tokenService        *service.TokenService
	accountService      *service.AccountService
	identityService     *service.IdentityService
	intakeService       *service.IntakeService
	adminService        *service.AdminService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Optional backends that fail to start are
// logged and left out rather than failing the whole process.
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: "stepglobe",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitSessionKeys(cfg, logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	if err := app.initIdentity(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initBackends()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler serves the API.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return fmt.Errorf("failed to start housekeeping: %w", err)
	}

	app.logger.Info("stepglobe starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.housekeepingService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down stepglobe...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "err", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "err", err)
		}
	}

	app.housekeepingService.Stop()
	return app.Close()
}

// Close releases the database, cache and screenshot bucket.
func (app *Application) Close() error {
	if app.roster != nil {
		if err := app.roster.Close(); err != nil {
			app.logger.Error("error closing roster cache", "err", err)
		}
	}
	if app.blobs != nil {
		if err := app.blobs.Close(); err != nil {
			app.logger.Error("error closing screenshot bucket", "err", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "err", err)
		return err
	}
	app.logger.Info("stepglobe stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dsn)
	}
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initIdentity() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper, cryptox.DefaultParams)

	kd, err := tgauth.ParseKeyDerivation(app.cfg.Telegram.KeyDerivation)
	if err != nil {
		return err
	}
	v, err := tgauth.NewVerifier(app.cfg.Telegram.BotToken, kd)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram verifier: %w", err)
	}
	if app.cfg.Telegram.ClaimMaxAge > 0 {
		v.MaxAge = app.cfg.Telegram.ClaimMaxAge
	}
	app.verifier = v

	app.logger.Info("telegram identity bridge ready", "key_derivation", kd, "admin_ids", len(app.cfg.Telegram.AdminIDs))
	return nil
}

// initBackends connects the optional roster cache, content store, vision
// extractor and bot notifier.
func (app *Application) initBackends() {
	cfg := app.cfg

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := cache.NewRedisRoster(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.RosterTTL,
		})
		if err != nil {
			app.logger.Warn("roster cache disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			app.roster = r
			app.logger.Info("roster cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.RosterTTL)
		}
	}

	if cfg.BlobDir != "" {
		fsStore, err := blob.NewFS(cfg.BlobDir)
		if err != nil {
			app.logger.Warn("screenshot storage disabled", "dir", cfg.BlobDir, "err", err)
		} else {
			app.blobs = fsStore
		}
	}

	if cfg.Gemini.APIKey != "" {
		g, err := vision.NewGemini(context.Background(), vision.Options{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			BaseURL:           cfg.Gemini.BaseURL,
			RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		})
		if err != nil {
			app.logger.Warn("vision disabled", "err", err)
		} else {
			app.vision = g
		}
	} else {
		app.logger.Info("GEMINI_API_KEY not set, screenshot intake disabled")
	}

	if cfg.Telegram.Notify {
		n, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.APIEndpoint, cfg.Telegram.AdminChatID)
		if err != nil {
			app.logger.Warn("telegram notifications disabled", "err", err)
		} else {
			app.notifier = n
		}
	}
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.accountService = &service.AccountService{Store: app.db}
	if app.roster != nil {
		app.accountService.Cache = app.roster
	}

	// typed nils must not leak into the interfaces
	var (
		notifier service.Notifier
		blobs    service.BlobStore
		extract  service.Vision
	)
	if app.notifier != nil {
		notifier = app.notifier
	}
	if app.blobs != nil {
		blobs = app.blobs
	}
	if app.vision != nil {
		extract = app.vision
	}

	app.identityService = &service.IdentityService{
		Store:            app.db,
		Verifier:         app.verifier,
		Hasher:           app.hasher,
		Tokens:           app.tokenService,
		Accounts:         app.accountService,
		Notifier:         notifier,
		AdminTelegramIDs: app.cfg.Telegram.AdminIDs,
	}
	app.intakeService = &service.IntakeService{
		Accounts: app.accountService,
		Blobs:    blobs,
		Vision:   extract,
	}
	app.adminService = &service.AdminService{
		Store:    app.db,
		Accounts: app.accountService,
		Blobs:    blobs,
		Notifier: notifier,
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		blobs,
		app.logger,
		app.cfg.Housekeeping.Schedule,
		app.cfg.Housekeeping.ScreenshotRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.IdentityService = app.identityService
	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.IntakeService = app.intakeService
	router.AdminService = app.adminService
	if app.roster != nil {
		router.Cache = app.roster
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
