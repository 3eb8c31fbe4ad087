// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Config holds all process settings
type Config struct {
	Addr            string
	StorageType     string
	RedisURL        string
	DatabaseURL     string
	SessionDuration time.Duration
	CleanupInterval time.Duration
	CookieSecure    bool
	BcryptCost      int
	LogLevel        slog.Level
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Addr:            ":8080",
		StorageType:     StorageTypeMemory,
		SessionDuration: 24 * time.Hour,
		CleanupInterval: 10 * time.Minute,
		BcryptCost:      bcrypt.DefaultCost,
		LogLevel:        slog.LevelInfo,
	}
}

// Load reads the given .env files (".env" if none are named) into the
// process environment, then parses it. Variables already set win over the
// files, and missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse(os.Getenv)
}

// Parse builds a Config from getenv, starting from Default
func Parse(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	if v := getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("STORAGE_TYPE"); v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	cfg.RedisURL = getenv("REDIS_URL")
	cfg.DatabaseURL = getenv("DATABASE_URL")

	if v := getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("SESSION_DURATION: invalid duration %q", v))
		} else {
			cfg.SessionDuration = d
		}
	}
	if v := getenv("SESSION_CLEANUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("SESSION_CLEANUP_INTERVAL: invalid duration %q", v))
		} else {
			cfg.CleanupInterval = d
		}
	}
	if v := getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COOKIE_SECURE: invalid bool %q", v))
		} else {
			cfg.CookieSecure = b
		}
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			errs = append(errs, fmt.Errorf("BCRYPT_COST: must be between %d and %d, got %q", bcrypt.MinCost, bcrypt.MaxCost, v))
		} else {
			cfg.BcryptCost = n
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the chosen storage backend has what it needs
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StorageTypePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or postgres", c.StorageType)
	}
	return nil
}

// NewLogger returns the process logger: JSON on stdout at the configured level
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.LogLevel,
	}))
}
