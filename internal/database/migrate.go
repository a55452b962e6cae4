package database

import (
	"embed"
	"errors"
	"fmt"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// newMigrate builds a migrator over the embedded schema for d's driver.
// The returned instance shares d's pool and must not be closed.
func newMigrate(d *DB) (*migrate.Migrate, error) {
	var (
		driver migratedb.Driver
		err    error
	)

	switch d.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(d.db.DB, &postgres.Config{})
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(d.db.DB, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s migration driver: %w", d.driver, err)
	}

	source, err := iofs.New(migrationFiles, "migrations/"+d.driver)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, d.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(d *DB, log infralogger.Logger) error {
	m, err := newMigrate(d)
	if err != nil {
		return err
	}

	if upErr := m.Up(); upErr != nil {
		if errors.Is(upErr, migrate.ErrNoChange) {
			log.Info("No pending migrations", infralogger.String("driver", d.driver))
			return nil
		}
		return fmt.Errorf("run migrations: %w", upErr)
	}

	log.Info("Migrations applied successfully", infralogger.String("driver", d.driver))
	return nil
}

// MigrateDown rolls back steps migrations (at least one).
func MigrateDown(d *DB, steps int, log infralogger.Logger) error {
	m, err := newMigrate(d)
	if err != nil {
		return err
	}

	if steps <= 0 {
		steps = 1
	}

	if downErr := m.Steps(-steps); downErr != nil {
		if errors.Is(downErr, migrate.ErrNoChange) {
			log.Info("No migrations to roll back", infralogger.String("driver", d.driver))
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", downErr)
	}

	log.Info("Migrations rolled back",
		infralogger.String("driver", d.driver),
		infralogger.Int("steps", steps),
	)
	return nil
}

// MigrationVersion reports the applied schema version. Version 0 means none.
func MigrationVersion(d *DB) (version uint, dirty bool, err error) {
	m, err := newMigrate(d)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}
