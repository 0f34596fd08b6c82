// Package config resolves runtime configuration from the environment.
// The .env file, when present, is loaded by the CLI before this package runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultDatabase        = "Axis"
	defaultTokenFile       = "token.json"
	defaultHTTPAddr        = ":8080"
	defaultSyncInterval    = 5 * time.Minute
	defaultSyncWorkers     = 4
	defaultProviderTimeout = 30 * time.Second
)

// Config is the resolved process configuration.
type Config struct {
	MongoURI      string
	MongoDatabase string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenFile    string

	SyncInterval    time.Duration
	SyncWorkers     int
	ProviderTimeout time.Duration

	HTTPAddr string
	LogLevel string
}

// FromEnv reads configuration from environment variables, applying defaults
// for everything optional.
func FromEnv() (*Config, error) {
	cfg := &Config{
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      envOr("MONGO_DB", defaultDatabase),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleTokenFile:    envOr("GOOGLE_TOKEN_FILE", defaultTokenFile),
		SyncInterval:       defaultSyncInterval,
		SyncWorkers:        defaultSyncWorkers,
		ProviderTimeout:    defaultProviderTimeout,
		HTTPAddr:           envOr("HTTP_ADDR", defaultHTTPAddr),
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("SYNC_INTERVAL_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL_MINUTES %q", v)
		}
		cfg.SyncInterval = time.Duration(minutes) * time.Minute
	}
	if v := os.Getenv("SYNC_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil || workers <= 0 {
			return nil, fmt.Errorf("invalid SYNC_WORKERS %q", v)
		}
		cfg.SyncWorkers = workers
	}
	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS %q", v)
		}
		cfg.ProviderTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// Validate checks the values every long-running command needs. Failures here
// are fatal at startup, before the sync loop or server starts.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
