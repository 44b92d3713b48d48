// Package store persists the best winning time of each difficulty preset.
//
// Every backend keeps one integer (seconds) per preset name and only ever
// replaces it with a strictly smaller value.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTime is returned when a negative time is recorded.
var ErrInvalidTime = errors.New("best time must not be negative")

// BestTimes reads and records best times keyed by preset name.
type BestTimes interface {
	// Best returns the stored time, with ok false when none exists yet.
	Best(ctx context.Context, preset string) (seconds int, ok bool, err error)
	// Record stores seconds if no time exists for preset or seconds is
	// strictly less than the stored one. It reports whether it did.
	Record(ctx context.Context, preset string, seconds int) (improved bool, err error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend     string // memory, file, redis, postgres
	Path        string
	RedisAddr   string
	RedisKey    string
	DatabaseURL string
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (BestTimes, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		if cfg.Path == "" {
			return nil, errors.New("file store: path is required")
		}
		return NewFile(cfg.Path)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("redis store: redis_addr is required")
		}
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisKey)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("postgres store: database_url is required")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func validate(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTime, seconds)
	}
	return nil
}
