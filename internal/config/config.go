// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the dashboard service.
type Config struct {
	Port                  string
	MarketplaceAPIURL     string // backend REST API base, e.g. https://api.collabhub.example
	RedisURL              string
	SnapshotTTLMinutes    int // lifetime of cached snapshots / session registrations
	RewarmIntervalMinutes int // how often the re-warm cron fires
	OTPCooldownSeconds    int // minimum gap between OTP sends per channel
}

// Load reads environment variables (after loading a local .env when
// present) and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	apiURL := os.Getenv("MARKETPLACE_API_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("MARKETPLACE_API_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("DASHBOARD_PORT")
	if port == "" {
		port = "8083"
	}

	ttl, err := positiveIntEnv("SNAPSHOT_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	interval, err := positiveIntEnv("REWARM_INTERVAL_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	cooldown, err := positiveIntEnv("OTP_COOLDOWN_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                  port,
		MarketplaceAPIURL:     apiURL,
		RedisURL:              redisURL,
		SnapshotTTLMinutes:    ttl,
		RewarmIntervalMinutes: interval,
		OTPCooldownSeconds:    cooldown,
	}, nil
}

func positiveIntEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}
