package redis

import (
	"time"

	"github.com/mcoot/studentdesk/internal/dependencies/clock"
)

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// DialTimeout bounds the initial connectivity check
	DialTimeout time.Duration

	// MaxTxRetries is how many times an optimistic (WATCH) transaction
	// is retried when a concurrent writer touches the same key
	MaxTxRetries int

	// Clock stamps record creation times. Defaults to the system clock.
	Clock clock.Clock
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		MaxTxRetries: 5,
	}
}
