package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// runMigrations applies the embedded schema for the given driver.
//
// SQLite migrates over the live connection so that ":memory:" databases keep
// their schema. MySQL gets its own short-lived pool because the migrate driver
// pins a connection until it is closed.
func runMigrations(conn *sql.DB, driver, dsn string) error {
	var (
		target database.Driver
		err    error
	)

	switch driver {
	case DriverSQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
	case DriverMySQL:
		var migrateDB *sql.DB
		migrateDB, err = sql.Open(DriverMySQL, dsn)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		target, err = mysql.WithInstance(migrateDB, &mysql.Config{})
		if err != nil {
			migrateDB.Close()
		}
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Closing the sqlite driver would close the shared connection.
	if driver == DriverMySQL {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
