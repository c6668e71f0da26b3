// Package config provides configuration management for pksnap.
//
// The config file holds settings that are the same for every run: where the
// lookup database lives, how to log, how to reach S3 and where to write
// metrics. Command line flags override it.
//
// Config file locations are listed by SearchPaths.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the settings used without a config file
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Storage.S3 != nil && c.Storage.S3.Region == "" {
		c.Storage.S3.Region = "us-east-1"
	}
	if c.Qualification.WatchDebounce == 0 {
		c.Qualification.WatchDebounce = Duration(500 * time.Millisecond)
	}
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// ParseLevel converts a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	db := c.Database.Path
	if db == "" {
		db = "embedded"
	}
	summary := fmt.Sprintf("Database: %s, Logging: %s/%s", db, c.Logging.Level, c.Logging.Format)
	if c.Storage.S3 != nil {
		summary += fmt.Sprintf(", S3: %s", c.Storage.S3.Region)
		if c.Storage.S3.Endpoint != "" {
			summary += fmt.Sprintf(" via %s", c.Storage.S3.Endpoint)
		}
	}
	if c.Metrics.Textfile != "" {
		summary += fmt.Sprintf(", Metrics: %s", c.Metrics.Textfile)
	}
	return summary
}
