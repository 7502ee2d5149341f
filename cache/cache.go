// Package cache stores short-lived computed responses such as leaderboards.
package cache

import (
	"context"
	"time"

	"mark2cure/config"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New returns a Redis cache when an address is configured and an in-process
// cache otherwise.
func New(cfg config.RedisConfig) (Cache, error) {
	if cfg.Addr == "" {
		m, err := NewMemory()
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return NewRedis(cfg)
}
