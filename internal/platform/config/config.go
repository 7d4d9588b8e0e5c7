package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DataDir   string `env:"STC_DATA_DIR"`
	DBPath    string `env:"-"`
	StatePath string `env:"-"`
}

// New resolves the data directory, letting the STC_DATA_DIR environment
// variable override the flag value.
func New(dataDir string) (Config, error) {
	cfg := Config{DataDir: dataDir}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, ".stc", "stc.db")
	cfg.StatePath = filepath.Join(cfg.DataDir, ".stc", "state.db")
	return cfg, nil
}
