// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"strconv"
	"time"

	"taskcal/internal/util"
)

// Config keeps the runtime settings for the service.
type Config struct {
	Addr           string
	DatabaseURL    string
	StaticDir      string
	JWTSecret      string
	TokenTTL       time.Duration
	Timezone       *time.Location
	DigestInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// The timezone defaults to the host zone but can be pinned with TASKCAL_TZ
// so date windows are deterministic across deployments.
func Load() (Config, error) {
	cfg := Config{
		Addr:        util.EnvOrDefault("TASKCAL_ADDR", ":8080"),
		DatabaseURL: util.EnvOrDefault("TASKCAL_DB_PATH", "data/taskcal.db"),
		StaticDir:   util.EnvOrDefault("TASKCAL_STATIC_DIR", "web/dist"),
		JWTSecret:   util.EnvOrDefault("TASKCAL_JWT_SECRET", ""),
		Timezone:    time.Local,
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("TASKCAL_JWT_SECRET is required")
	}

	if tz := util.EnvOrDefault("TASKCAL_TZ", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		cfg.Timezone = loc
	}

	cfg.TokenTTL = parseHours(util.EnvOrDefault("TASKCAL_TOKEN_TTL_HOURS", ""), 24*time.Hour)
	cfg.DigestInterval = parseHours(util.EnvOrDefault("TASKCAL_DIGEST_INTERVAL_HOURS", ""), 0)

	return cfg, nil
}

func parseHours(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return fallback
	}
	return time.Duration(hours) * time.Hour
}
