package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/studentdesk/internal/config"
	"github.com/mcoot/studentdesk/internal/dependencies/clock"
	"github.com/mcoot/studentdesk/internal/dependencies/random"
	"github.com/mcoot/studentdesk/internal/services/auth"
	"github.com/mcoot/studentdesk/internal/services/password"
	"github.com/mcoot/studentdesk/internal/services/students"
	"github.com/mcoot/studentdesk/internal/storage"
	"github.com/mcoot/studentdesk/internal/storage/memory"
	"github.com/mcoot/studentdesk/internal/storage/postgres"
	redisstorage "github.com/mcoot/studentdesk/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Hasher password.Hasher

	// Services
	AuthService        *auth.Service
	StudentsController *students.Controller

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseURL is the Postgres DSN (required if StorageType is "postgres")
	DatabaseURL string
	// AutoMigrate applies the embedded schema migrations on startup (postgres only)
	AutoMigrate bool
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// BcryptCost is the password hashing work factor (optional)
	BcryptCost int
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// ConfigFrom maps process settings onto a factory Config
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		StorageType: cfg.StorageType,
		DatabaseURL: cfg.DatabaseURL,
		AutoMigrate: true,
		AuthConfig:  auth.Config{SessionDuration: cfg.SessionDuration},
		BcryptCost:  cfg.BcryptCost,
		Logger:      logger,
	}
	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		out.RedisConfig = &redisCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	store, err := newStorage(ctx, cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	hasher := password.NewBcrypt(cfg.BcryptCost)

	return newWithDependencies(store, clk, rnd, hasher, cfg.AuthConfig, logger), nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

func newStorage(ctx context.Context, cfg Config, clk clock.Clock, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.NewWithClock(clk), nil
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		redisCfg.Clock = clk
		return redisstorage.New(redisCfg)
	case config.StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when StorageType is postgres")
		}
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, hasher password.Hasher, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, hasher, clk, rnd, authCfg, logger)
	studentsController := students.NewController(store, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		Hasher:             hasher,
		AuthService:        authService,
		StudentsController: studentsController,
		Logger:             logger,
	}
}
