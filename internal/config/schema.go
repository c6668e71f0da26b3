package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version       int                 `yaml:"version"`
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	Storage       StorageConfig       `yaml:"storage"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Qualification QualificationConfig `yaml:"qualification"`
}

// DatabaseConfig holds lookup database settings. An empty path uses the
// embedded seed data in memory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// StorageConfig holds remote storage settings
type StorageConfig struct {
	S3 *S3Config `yaml:"s3,omitempty"` // nil = s3:// paths are rejected
}

// S3Config holds S3 client settings. Credentials come from the default AWS
// chain unless an access key is given.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// MetricsConfig holds metrics output settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // node exporter textfile, written on exit
}

// QualificationConfig holds batch runner settings
type QualificationConfig struct {
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
