package bootstrap

import (
	"context"
	"fmt"
	"time"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/infrastructure/retry"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/barjames/funeral-planner/internal/database"
)

// SetupDatabase opens the record store and, when configured, applies pending
// migrations. Transient connect failures are retried while the database starts.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*database.DB, error) {
	var db *database.DB

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Database not reachable, retrying",
			infralogger.Int("attempt", attempt),
			infralogger.Duration("delay", delay),
			infralogger.Error(err),
		)
	}

	err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		var openErr error
		db, openErr = database.Open(ctx, cfg.Database, log)
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if migrateErr := database.MigrateUp(db, log); migrateErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("auto-migrate: %w", migrateErr)
		}
	}

	return db, nil
}
