// Package config loads the service environment and machine profiles.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// DBPath is the SQLite file holding synthesized jobs.
	DBPath string
	// ProfilePath names an optional machine profile whose settings seed
	// every request.
	ProfilePath string
}

// Load reads the configuration from environment variables. Timeouts are
// Go durations ("90s", "2m") or a bare number of seconds.
func Load() *Config {
	return &Config{
		Port:         lookup("PORT", "3000"),
		Environment:  strings.ToLower(lookup("ENV", "development")),
		ReadTimeout:  lookupDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: lookupDuration("WRITE_TIMEOUT", 10*time.Second),
		DBPath:       lookup("CAMD_DB_PATH", "data/db/camd.db"),
		ProfilePath:  lookup("CAMD_PROFILE", ""),
	}
}

func lookup(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// lookupDuration falls back on unparsable or non-positive values.
func lookupDuration(key string, fallback time.Duration) time.Duration {
	v := lookup(key, "")
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return fallback
		}
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return fallback
}
