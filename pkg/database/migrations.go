package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"tourism-platform/pkg/logging"
)

// Direction selects which way RunMigrations moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies (or rolls back) the SQL files in migrationsPath.
// Running up on a current schema is a no-op. It uses its own connection,
// closed on return, so an application pool is never shared with migrate.
func RunMigrations(ctx context.Context, cfg *Config, migrationsPath string, direction Direction, logger *logging.StructuredLogger) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn(ctx, "[MIGRATE] Failed to close migration source", logging.Fields{"error": srcErr.Error()})
		}
		if dbErr != nil {
			logger.Warn(ctx, "[MIGRATE] Failed to close migration database", logging.Fields{"error": dbErr.Error()})
		}
	}()

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(ctx, "[MIGRATE] No migrations to apply", logging.Fields{"direction": string(direction)})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}

	version, dirty, _ := m.Version()
	logger.Info(ctx, "[MIGRATE] Migrations applied", logging.Fields{
		"direction": string(direction),
		"version":   version,
		"dirty":     dirty,
	})
	return nil
}
