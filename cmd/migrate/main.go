// Command migrate applies or rolls back the bundled schema migrations.
// Usage: migrate <up|down [steps]|version>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	infraconfig "github.com/barjames/funeral-planner/infrastructure/config"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/barjames/funeral-planner/internal/database"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

const usage = "Usage: migrate <up|down [steps]|version>"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		return exitFailure
	}

	command := args[0]
	steps := 1
	switch command {
	case "up", "version":
	case "down":
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "Invalid steps: %q (must be a positive integer)\n", args[1])
				return exitFailure
			}
			steps = n
		}
	default:
		fmt.Fprintf(os.Stderr, "Invalid command: %q\n%s\n", command, usage)
		return exitFailure
	}

	cfg, err := config.Load(infraconfig.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	log, err := infralogger.New(infralogger.Config{Level: cfg.Logging.Level, OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(context.Background(), cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return exitFailure
	}
	defer func() { _ = db.Close() }()

	switch command {
	case "up":
		err = database.MigrateUp(db, log)
	case "down":
		err = database.MigrateDown(db, steps, log)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = database.MigrationVersion(db)
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", command, err)
		return exitFailure
	}

	if command != "version" {
		fmt.Printf("Migration %s completed successfully\n", command)
	}
	return exitSuccess
}
