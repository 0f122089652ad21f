package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DefaultMetric != "usage" {
		t.Errorf("default metric = %q, want usage", cfg.UI.DefaultMetric)
	}
	if cfg.UI.DefaultRange != "7d" {
		t.Errorf("default range = %q, want 7d", cfg.UI.DefaultRange)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom("/tmp/nonexistent_costwatch_test.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.DefaultMetric != "usage" {
		t.Error("should return defaults for missing file")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	content := `{
  "ui": {"default_metric": "cost", "default_range": "30d"},
  "env_file": "/etc/costwatch/keys.env"
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.UI.DefaultMetric != "cost" {
		t.Errorf("metric = %q, want cost", cfg.UI.DefaultMetric)
	}
	if cfg.UI.DefaultRange != "30d" {
		t.Errorf("range = %q, want 30d", cfg.UI.DefaultRange)
	}
	if cfg.EnvFile != "/etc/costwatch/keys.env" {
		t.Errorf("env file = %q", cfg.EnvFile)
	}
	if cfg.Theme != DefaultConfig().Theme {
		t.Errorf("theme = %q, want default", cfg.Theme)
	}
}

func TestLoadFrom_InvalidValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	content := `{"ui": {"default_metric": "bananas", "default_range": "90d"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.UI.DefaultMetric != "usage" {
		t.Errorf("metric = %q, want usage fallback", cfg.UI.DefaultMetric)
	}
	if cfg.UI.DefaultRange != "7d" {
		t.Errorf("range = %q, want 7d fallback", cfg.UI.DefaultRange)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.json")

	cfg := DefaultConfig()
	cfg.UI.DefaultRange = "30d"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.UI.DefaultRange != "30d" {
		t.Errorf("reloaded range = %q, want 30d", loaded.UI.DefaultRange)
	}
}
