package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tourism-platform/internal/config"
	"tourism-platform/pkg/database"
	"tourism-platform/pkg/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	path := flag.String("path", "", "Migrations directory (defaults to accounts.migrations_path)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	dir := database.Direction(*direction)
	if dir != database.Up && dir != database.Down {
		fmt.Fprintf(os.Stderr, "Unknown direction %q, expected up or down\n", *direction)
		os.Exit(2)
	}

	migrationsPath := *path
	if migrationsPath == "" {
		migrationsPath = cfg.Accounts.MigrationsPath
	}

	logLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logLevel = logging.InfoLevel
	}
	logger := logging.NewStructuredLogger("tourism-migrate", "1.0.0", logLevel)
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "[MIGRATE_START] Running account store migrations", logging.Fields{
		"direction": *direction,
		"path":      migrationsPath,
		"db_host":   cfg.Database.Host,
		"db_name":   cfg.Database.Database,
	})

	if err := database.RunMigrations(ctx, cfg.Database.Postgres(), migrationsPath, dir, logger); err != nil {
		logger.Error(ctx, "[MIGRATE_ERROR] Migration failed", logging.Fields{}, err)
		os.Exit(1)
	}

	logger.Info(ctx, "[MIGRATE_COMPLETE] Migration completed successfully", logging.Fields{})
}
