package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/passgate/internal/api/middleware"
	"github.com/phrazzld/passgate/internal/config"
	"github.com/phrazzld/passgate/internal/platform/memory"
	"github.com/phrazzld/passgate/internal/platform/postgres"
	"github.com/phrazzld/passgate/internal/platform/ratelimit"
	"github.com/phrazzld/passgate/internal/redact"
	"github.com/phrazzld/passgate/internal/service"
	"github.com/phrazzld/passgate/internal/service/auth"
	"github.com/phrazzld/passgate/internal/store"
)

// Demo account created when auth.seed_demo_user is enabled.
const (
	demoUsername = "testuser"
	demoPassword = "testpassword"
	demoEmail    = "test@example.com"
	demoFullName = "Test User"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	tokenService   auth.TokenService
	passwordHasher auth.PasswordHasher
	accountService service.AccountService
	loginLimiter   ratelimit.Limiter
	metrics        *middleware.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
// Options customize dependencies after defaults are built; tests use them to
// swap the clock or the store.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...appOption) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: middleware.NewMetrics(),
	}

	var err error
	app.tokenService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"clock_skew_seconds", cfg.Auth.ClockSkewSeconds)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordHasher = hasher
	logger.Debug("password hasher initialized", "bcrypt_cost", hasher.Cost())

	for _, opt := range opts {
		opt(app)
	}

	if app.userStore == nil {
		if err := app.setupUserStore(ctx); err != nil {
			app.cleanup()
			return nil, err
		}
	}

	if err := app.setupLoginLimiter(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.accountService, err = service.NewAccountService(
		app.userStore,
		app.tokenService,
		app.passwordHasher,
		time.Duration(cfg.Auth.TokenLifetimeMinutes)*time.Minute,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	if cfg.Auth.SeedDemoUser {
		if err := app.seedDemoUser(ctx); err != nil {
			app.cleanup()
			return nil, err
		}
	}

	logger.Info("application initialized successfully")
	return app, nil
}

type appOption func(*application)

// withUserStore injects a credential store instead of building one from config.
func withUserStore(s store.UserStore) appOption {
	return func(app *application) { app.userStore = s }
}

// withTokenService replaces the token service, e.g. to control its clock.
func withTokenService(ts auth.TokenService) appOption {
	return func(app *application) { app.tokenService = ts }
}

// setupUserStore selects PostgreSQL when database.url is set and the
// in-memory store otherwise.
func (app *application) setupUserStore(ctx context.Context) error {
	if app.config.Database.URL == "" {
		app.userStore = memory.NewUserStore()
		app.logger.Info("using in-memory credential store")
		return nil
	}

	db, err := postgres.Open(ctx, app.config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = db
	app.logger.Info("database connection established",
		"database", redact.URL(app.config.Database.URL))

	if app.config.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app.userStore = postgres.NewPostgresUserStore(db)
	return nil
}

// setupLoginLimiter selects the Redis limiter when rate_limit.redis_url is
// set. An unreachable Redis falls back to the in-process limiter.
func (app *application) setupLoginLimiter(ctx context.Context) error {
	perMinute := app.config.RateLimit.LoginPerMinute
	if perMinute <= 0 {
		return nil
	}

	if url := app.config.RateLimit.RedisURL; url != "" {
		limiter, err := ratelimit.NewRedisLimiter(ctx, url, perMinute, app.logger)
		if err == nil {
			app.loginLimiter = limiter
			app.logger.Info("login rate limiter using redis", "per_minute", perMinute)
			return nil
		}
		app.logger.Warn("redis rate limiter unavailable, using in-process limiter",
			"error", redact.Error(err))
	}

	app.loginLimiter = ratelimit.NewLocalLimiter(perMinute)
	app.logger.Info("login rate limiter using process memory", "per_minute", perMinute)
	return nil
}

// seedDemoUser registers the demo account unless it already exists.
func (app *application) seedDemoUser(ctx context.Context) error {
	_, err := app.accountService.Register(ctx, service.RegisterInput{
		Username: demoUsername,
		Email:    demoEmail,
		Password: demoPassword,
		FullName: demoFullName,
	})
	if err != nil && !errors.Is(err, store.ErrUsernameExists) {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	app.logger.Info("demo user available", "username", demoUsername)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.loginLimiter != nil {
		if err := app.loginLimiter.Close(); err != nil {
			app.logger.Error("error closing rate limiter", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
