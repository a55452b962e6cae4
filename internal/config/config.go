// Package config defines the planner server configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/barjames/funeral-planner/infrastructure/config"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultServiceName     = "funeral-planner"
	defaultServicePort     = 5000
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultDatabaseDriver  = DriverSQLite
	defaultSQLitePath      = "planner.db"
	defaultDatabasePort    = 5432
	defaultDatabaseName    = "funeral_planner"
	defaultDatabaseUser    = "postgres"
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultRedisAddress    = "localhost:6379"
	defaultPDFFilename     = "funeral_plan.pdf"
	defaultPDFRatePerMin   = 30
	defaultImportMaxBytes  = 10 << 20
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "json"
)

// Config is the root configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	PDF      PDFConfig      `yaml:"pdf"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds HTTP service settings.
type ServiceConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Port         int           `env:"PORT"         yaml:"port"`
	Debug        bool          `env:"APP_DEBUG"    yaml:"debug"`
	StaticDir    string        `env:"STATIC_DIR"   yaml:"static_dir"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig selects and configures the record store.
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER"   yaml:"driver"`
	Path            string        `env:"DB_PATH"     yaml:"path"`
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	Database        string        `env:"DB_NAME"     yaml:"database"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" yaml:"auto_migrate"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN returns the driver-specific data source name.
func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedisConfig configures the optional event stream.
type RedisConfig struct {
	Address       string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password      string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB            int    `env:"REDIS_DB"             yaml:"db"`
	EventsEnabled bool   `env:"REDIS_EVENTS_ENABLED" yaml:"events_enabled"`
}

// PDFConfig configures plan document generation.
type PDFConfig struct {
	Filename string `env:"PDF_FILENAME" yaml:"filename"`
	// RatePerMinute limits generation requests per client IP. A negative value disables the limit.
	RatePerMinute int `env:"PDF_RATE_PER_MINUTE" yaml:"rate_per_minute"`
}

// ImportConfig bounds spreadsheet uploads.
type ImportConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load reads path (optional), fills defaults, applies env overrides and validates.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid config: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("database.driver", c.Database.Driver, DriverPostgres, DriverSQLite); err != nil {
		return err
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if err := infraconfig.ValidateRequired("database.path", c.Database.Path); err != nil {
			return err
		}
	case DriverPostgres:
		if err := infraconfig.ValidateRequired("database.host", c.Database.Host); err != nil {
			return err
		}
		if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
			return err
		}
		if err := infraconfig.ValidateRequired("database.database", c.Database.Database); err != nil {
			return err
		}
	}

	if c.Redis.EventsEnabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis.events_enabled is set")
	}
	if c.Import.MaxBytes < 0 {
		return &infraconfig.ValidationError{Field: "import.max_bytes", Message: "must not be negative"}
	}

	return infraconfig.ValidateLogLevel("logging.level", c.Logging.Level)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.PDF.Filename == "" {
		cfg.PDF.Filename = defaultPDFFilename
	}
	if cfg.PDF.RatePerMinute == 0 {
		cfg.PDF.RatePerMinute = defaultPDFRatePerMin
	}
	if cfg.Import.MaxBytes == 0 {
		cfg.Import.MaxBytes = defaultImportMaxBytes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFormat
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDatabaseDriver
	}
	if d.Path == "" {
		d.Path = defaultSQLitePath
	}
	if d.Port == 0 {
		d.Port = defaultDatabasePort
	}
	if d.User == "" {
		d.User = defaultDatabaseUser
	}
	if d.Database == "" {
		d.Database = defaultDatabaseName
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = defaultMaxOpenConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = defaultConnMaxLifetime
	}
}
