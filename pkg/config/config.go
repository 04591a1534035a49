// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings. Flags in cmd/staffdb override these.
type Config struct {
	Port           string
	DataFile       string
	Format         string
	Concurrency    string
	BackgroundSave time.Duration
	LogLevel       string
	LogFile        string
	MaxPageSize    int
}

// Load reads an optional .env file from the working directory, then the
// STAFFDB_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:           getEnvString("STAFFDB_PORT", "8080"),
		DataFile:       getEnvString("STAFFDB_DATA_FILE", "staffdb_data.jsonl"),
		Format:         getEnvString("STAFFDB_FORMAT", "lines"),
		Concurrency:    getEnvString("STAFFDB_CONCURRENCY", "rw"),
		BackgroundSave: getEnvDuration("STAFFDB_BACKGROUND_SAVE", 0),
		LogLevel:       getEnvString("STAFFDB_LOG_LEVEL", "info"),
		LogFile:        getEnvString("STAFFDB_LOG_FILE", ""),
		MaxPageSize:    getEnvInt("STAFFDB_MAX_PAGE", 1000),
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Format {
	case "lines", "binary":
	default:
		return fmt.Errorf("unknown format %q (want lines or binary)", c.Format)
	}
	switch c.Concurrency {
	case "rw", "single":
	default:
		return fmt.Errorf("unknown concurrency policy %q (want rw or single)", c.Concurrency)
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max page size must be positive, got %d", c.MaxPageSize)
	}
	if c.BackgroundSave < 0 {
		return fmt.Errorf("background save interval cannot be negative")
	}
	// the save worker runs on its own goroutine
	if c.Concurrency == "single" && c.BackgroundSave > 0 {
		return fmt.Errorf("background save requires the rw concurrency policy")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
