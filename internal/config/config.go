// Package config resolves client configuration from the environment once at
// process start. There is no runtime reconfiguration.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultAPIURL is the fixed fallback origin used when TRACKER_API_URL is unset.
const DefaultAPIURL = "https://meeting-tracker-backend.onrender.com"

// Config holds all environment-derived settings.
type Config struct {
	// APIURL is the backend base origin.
	APIURL string `envconfig:"API_URL"`

	// HTTPTimeout bounds every request to the backend.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// DebugLog, when set, enables debug logging to the named file.
	// The TUI owns the terminal, so it never logs to stdout/stderr.
	DebugLog string `envconfig:"DEBUG_LOG"`

	// Theme forces the TUI palette: "light", "dark" or "auto".
	Theme string `envconfig:"THEME" default:"auto"`
}

// Load reads configuration from the environment, preferring an existing .env
// file for local development. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("TRACKER", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return &cfg, nil
}
