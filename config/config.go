package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Backend names accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the complete relayd configuration.
type Config struct {
	// Listen is the TCP address the broker accepts client connections on.
	Listen string `toml:"listen"`

	// Storage configuration for the persistence adapter.
	Storage StorageConfig `toml:"storage"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging"`
}

// StorageConfig selects and parameterizes the blob-store backend.
type StorageConfig struct {
	// Backend is one of "memory", "file" or "sqlite".
	Backend string `toml:"backend"`

	// Path is the snapshot directory for the file backend, or the
	// database file for the sqlite backend. Ignored by "memory".
	Path string `toml:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:9190",
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML configuration file, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides lets the environment win over file values:
// RELAYD_LISTEN, RELAYD_STORAGE_BACKEND, RELAYD_STORAGE_PATH,
// RELAYD_LOG_LEVEL.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RELAYD_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("RELAYD_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("RELAYD_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("RELAYD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %q requires storage.path", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	return nil
}
