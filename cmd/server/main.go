// Package main implements the entry point for the passgate API server, a
// small JWT-authenticated user registration and login service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/passgate/internal/config"
	"github.com/phrazzld/passgate/internal/platform/logger"
	"github.com/phrazzld/passgate/internal/platform/postgres"
	"github.com/phrazzld/passgate/internal/redact"
)

func main() {
	configFile := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	migrate := flag.String("migrate", "",
		"run a database migration command and exit ("+strings.Join(postgres.MigrationCommands, "|")+")")
	flag.Parse()

	if err := run(*configFile, *migrate); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either executes a migration
// command or serves HTTP until SIGINT/SIGTERM.
func run(configFile, migrateCommand string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database", storeBackend(cfg),
		"login_rate_limit", cfg.RateLimit.LoginPerMinute)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrateCommand != "" {
		return runMigration(ctx, cfg, migrateCommand, log)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// runMigration applies a goose command to the configured database.
func runMigration(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	if cfg.Database.URL == "" {
		return errors.New("database.url must be set to run migrations")
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", "error", err)
		}
	}()

	log.Info("running migration", "command", command, "database", redact.URL(cfg.Database.URL))
	return postgres.Migrate(ctx, db, command, log)
}

func storeBackend(cfg *config.Config) string {
	if cfg.Database.URL == "" {
		return "memory"
	}
	return "postgres"
}
