package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/hearthside/homesite/internal/site/http"
	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/internal/site/store/drivers/sqlite"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/hearthside/homesite/pkg/mailx"
	"github.com/hearthside/homesite/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the site service together with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier
	mailer   *mailx.Mailer

	authService     *service.AuthService
	resetService    *service.ResetService
	userService     *service.UserService
	profileService  *service.ProfileService
	apiKeyService   *service.APIKeyService
	birthdayService *service.BirthdayService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "homesite",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSessionKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	// Grant the configured account user management before any request runs.
	if err := app.userService.EnsurePrivileged(context.Background(), app.cfg.PrivilegedEmail); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to grant privileged capability: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("site service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down site service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("site service stopped")
	return nil
}

// initDatabase opens the SQLite database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initSessionKeys builds the HS256 signer/verifier pair. A missing secret
// gets a random one, which invalidates all sessions on restart.
func (app *Application) initSessionKeys() error {
	secret := app.cfg.SessionSecret
	if secret == "" {
		if strings.EqualFold(app.cfg.Env, "prod") {
			return fmt.Errorf("SITE_SESSION_SECRET must be set in prod")
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		app.logger.Warn("SITE_SESSION_SECRET not set, generated an ephemeral secret; sessions will not survive restarts")
	}

	app.signer = jwtx.NewSignerHS256([]byte(secret), app.cfg.Issuer)
	app.verifier = jwtx.NewVerifierHS256([]byte(secret), app.cfg.Issuer)
	return nil
}

func (app *Application) initMailer() error {
	mailer, err := mailx.New(mailx.Config{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.MailFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.mailer = mailer
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		SessionTTL: jwtx.DefaultSessionTTL,
	}

	app.resetService = &service.ResetService{
		Store:     app.db,
		Mailer:    app.mailer,
		Auth:      app.authService,
		PublicURL: app.cfg.PublicURL,
		TokenTTL:  service.DefaultResetTokenTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.profileService = &service.ProfileService{Store: app.db}
	app.apiKeyService = &service.APIKeyService{Store: app.db}
	app.birthdayService = &service.BirthdayService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	secureCookie := strings.EqualFold(app.cfg.Env, "prod")

	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		secureCookie,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.ResetService = app.resetService
	router.UserService = app.userService
	router.ProfileService = app.profileService
	router.APIKeyService = app.apiKeyService
	router.BirthdayService = app.birthdayService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
