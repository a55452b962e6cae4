// Package bootstrap initializes and runs the planner server.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
)

// version is overridden at build time with -ldflags "-X ...bootstrap.version=...".
var version = "dev"

// Start loads configuration and serves until interrupted.
func Start() error {
	ctx := context.Background()

	// Phase 1: config and logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: database
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 3: optional event stream
	stream := SetupEventPublisher(ctx, cfg, log)
	defer stream.Close(log)

	// Phase 4: HTTP server
	server := SetupHTTPServer(cfg, db, stream, log)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
