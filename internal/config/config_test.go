package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path != "" {
		t.Errorf("Database.Path = %q, want embedded", cfg.Database.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
	if cfg.Storage.S3 != nil {
		t.Error("S3 should not be configured by default")
	}
	if cfg.Qualification.WatchDebounce.Duration() != 500*time.Millisecond {
		t.Errorf("WatchDebounce = %s, want 500ms", cfg.Qualification.WatchDebounce.Duration())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/var/lib/pksnap/lookup.db"
	cfg.Logging.Format = "json"
	cfg.Storage.S3 = &S3Config{Endpoint: "http://localhost:9000", PathStyle: true}
	cfg.Metrics.Textfile = "/var/lib/node_exporter/pksnap.prom"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("Database.Path = %s, want %s", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("Logging.Format = %s, want json", loaded.Logging.Format)
	}
	if loaded.Storage.S3 == nil || !loaded.Storage.S3.PathStyle || loaded.Storage.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Storage.S3 = %+v", loaded.Storage.S3)
	}
	if loaded.Storage.S3 != nil && loaded.Storage.S3.Region != "us-east-1" {
		t.Errorf("Storage.S3.Region = %s, want us-east-1", loaded.Storage.S3.Region)
	}
	if loaded.Metrics.Textfile != cfg.Metrics.Textfile {
		t.Errorf("Metrics.Textfile = %s, want %s", loaded.Metrics.Textfile, cfg.Metrics.Textfile)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := map[string]string{
		"level":  "logging:\n  level: loud\n",
		"format": "logging:\n  format: xml\n",
		"yaml":   "logging: [\n",
	}

	for name, content := range tests {
		path := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := LoadFromPath(path); err == nil {
			t.Errorf("LoadFromPath(%s) should fail", name)
		}
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)

	// Should find config in working directory
	found := FindConfigPath()
	if !strings.HasSuffix(found, ConfigFileName) {
		t.Errorf("FindConfigPath() = %q, want the working directory config", found)
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found = FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path wins when it exists
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found = FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %q, want %q", found, explicit)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSummary(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Summary(); !strings.Contains(got, "Database: embedded") {
		t.Errorf("Summary() = %q", got)
	}

	cfg.Storage.S3 = &S3Config{Region: "eu-west-1", Endpoint: "http://minio:9000"}
	if got := cfg.Summary(); !strings.Contains(got, "S3: eu-west-1 via http://minio:9000") {
		t.Errorf("Summary() = %q", got)
	}
}
