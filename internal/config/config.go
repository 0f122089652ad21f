// Package config handles costwatch's settings file and credential
// sourcing (env vars, env files, the saved key store).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type UIConfig struct {
	DefaultMetric string `json:"default_metric"` // "usage" or "cost"
	DefaultRange  string `json:"default_range"`  // "7d" or "30d"
}

type Config struct {
	UI      UIConfig `json:"ui"`
	Theme   string   `json:"theme"`
	EnvFile string   `json:"env_file"` // optional, watched for key changes
}

func DefaultConfig() Config {
	return Config{
		Theme: "Catppuccin Mocha",
		UI: UIConfig{
			DefaultMetric: "usage",
			DefaultRange:  "7d",
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "costwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "costwatch")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UI.DefaultMetric != "cost" {
		cfg.UI.DefaultMetric = "usage"
	}
	if cfg.UI.DefaultRange != "30d" {
		cfg.UI.DefaultRange = "7d"
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultConfig().Theme
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
