package bootstrap

import (
	"flag"
	"fmt"

	infraconfig "github.com/barjames/funeral-planner/infrastructure/config"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/config"
)

// LoadConfig loads configuration from the -config flag, CONFIG_PATH, or config.yml.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", infraconfig.GetConfigPath("config.yml"), "Path to configuration file")
	flag.Parse()

	return config.Load(*configPath)
}

// CreateLogger builds the service logger tagged with service name and version.
func CreateLogger(cfg *config.Config, buildVersion string) (infralogger.Logger, error) {
	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return log.With(
		infralogger.String("service", cfg.Service.Name),
		infralogger.String("version", serviceVersion(cfg, buildVersion)),
	), nil
}

// serviceVersion prefers an explicitly configured version over the build's.
func serviceVersion(cfg *config.Config, buildVersion string) string {
	if cfg.Service.Version != "" {
		return cfg.Service.Version
	}
	return buildVersion
}
