package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Memory is an in-process Cache for single-instance deployments and tests.
type Memory struct {
	c *ristretto.Cache
}

var _ Cache = (*Memory)(nil)

func NewMemory() (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("memory cache: %w", err)
	}
	return &Memory{c: c}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

// Set stores a copy of value under key. A non-positive ttl never expires.
// Writes are applied before Set returns.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := append([]byte(nil), value...)
	if ttl > 0 {
		m.c.SetWithTTL(key, v, int64(len(v)), ttl)
	} else {
		m.c.Set(key, v, int64(len(v)))
	}
	m.c.Wait()
	return nil
}

func (m *Memory) Close() error {
	m.c.Close()
	return nil
}
