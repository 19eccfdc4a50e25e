// Package config loads giltrack settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings. Command-line flags override these.
type Config struct {
	DBPath  string `env:"GILTRACK_DB" envDefault:"giltrack.sqlite3"`
	LogPath string `env:"GILTRACK_LOG"`
	Debug   bool   `env:"GILTRACK_DEBUG" envDefault:"false"`
}

// Load reads configuration from the environment, loading a .env file first
// when one is present in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
