package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/om-adella-promo/internal/config"
)

var locationsDDL = map[string]string{
	config.DriverMySQL: `CREATE TABLE IF NOT EXISTS locations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		source VARCHAR(16) NOT NULL,
		created_at DATETIME(3) NOT NULL,
		INDEX idx_locations_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	config.DriverSQLite: `CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

// Migrate creates the locations table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := locationsDDL[driver]
	if !ok {
		return fmt.Errorf("database: no schema for driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("database: create locations: %w", err)
	}
	return nil
}
