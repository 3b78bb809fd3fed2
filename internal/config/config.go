package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/daap14/taskboard/internal/store"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	LogFile         string        `envconfig:"LOG_FILE" default:""`
	LogMaxSizeMB    int           `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups   int           `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	StoreBackend    string        `envconfig:"STORE_BACKEND" default:"file"`
	DataDir         string        `envconfig:"DATA_DIR" default:"data"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" default:""`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"data/taskboard.db"`
	ExportDir       string        `envconfig:"EXPORT_DIR" default:"out"`
	Version         string        `envconfig:"VERSION" default:"dev"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case store.BackendFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the file store")
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND %q: %w", c.StoreBackend, store.ErrUnknownBackend)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// StoreOptions returns the store settings selected by the configuration.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.StoreBackend,
		DataDir:     c.DataDir,
		DatabaseURL: c.DatabaseURL,
		SQLitePath:  c.SQLitePath,
	}
}
