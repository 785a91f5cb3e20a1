package database

import (
	"errors"
	"fmt"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/migrations"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationURL returns the golang-migrate database URL for the configured driver.
func MigrationURL(config utils.DatabaseConfig) (string, error) {
	switch config.Driver {
	case utils.DriverPostgres:
		return config.PostgresURL(), nil
	case utils.DriverSQLite:
		return "sqlite3://" + config.SQLitePath + "?_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// NewMigrator builds a migrator over the embedded SQL files for driver.
func NewMigrator(driver, databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, driver)
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}

	return m, nil
}

// MigrateUp applies all pending migrations. An up-to-date schema is not an error.
func MigrateUp(config utils.DatabaseConfig) error {
	url, err := MigrationURL(config)
	if err != nil {
		return err
	}

	m, err := NewMigrator(config.Driver, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
