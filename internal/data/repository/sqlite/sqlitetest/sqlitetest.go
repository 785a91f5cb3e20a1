// Package sqlitetest provides migrated SQLite stores for tests.
package sqlitetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"
)

// NewDB returns a migrated store in a temporary directory, closed on cleanup.
func NewDB(tb testing.TB) *sql.DB {
	tb.Helper()

	config := utils.DatabaseConfig{
		Driver:     utils.DriverSQLite,
		SQLitePath: filepath.Join(tb.TempDir(), "checkout.db"),
	}

	if err := database.MigrateUp(config); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}

	db, err := database.InitSQLite(config.SQLitePath)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	return db
}
