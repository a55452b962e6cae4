// Package database opens the record store and applies its schema.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	infracontext "github.com/barjames/funeral-planner/infrastructure/context"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  //nolint:blankimports // PostgreSQL driver
	_ "modernc.org/sqlite" //nolint:blankimports // SQLite driver
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know; queries use ? there.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// DB is an open record store connection pool.
type DB struct {
	db     *sqlx.DB
	driver string
	logger infralogger.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, log infralogger.Logger) (*DB, error) {
	if cfg.Driver == config.DriverSQLite {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Driver == config.DriverSQLite {
		for _, pragma := range sqlitePragmas {
			if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
			}
		}
	}

	fields := []infralogger.Field{infralogger.String("driver", cfg.Driver)}
	if cfg.Driver == config.DriverSQLite {
		fields = append(fields, infralogger.String("path", cfg.Path))
	} else {
		fields = append(fields,
			infralogger.String("host", cfg.Host),
			infralogger.Int("port", cfg.Port),
			infralogger.String("dbname", cfg.Database),
		)
	}
	log.Info("Database connection established", fields...)

	return &DB{db: db, driver: cfg.Driver, logger: log}, nil
}

// SQLX returns the underlying pool.
func (d *DB) SQLX() *sqlx.DB {
	return d.db
}

// Driver returns the driver name the pool was opened with.
func (d *DB) Driver() string {
	return d.driver
}

// Ping checks connectivity within the shared ping timeout.
func (d *DB) Ping(ctx context.Context) error {
	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if err := d.db.PingContext(pingCtx); err != nil {
		d.logger.Warn("Database ping failed",
			infralogger.String("driver", d.driver),
			infralogger.Error(err),
		)
		return err
	}
	return nil
}

// Close closes the pool.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	d.logger.Info("Database connection closed", infralogger.String("driver", d.driver))
	return nil
}
