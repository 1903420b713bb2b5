package cache

import (
	"context"
	"time"
)

// noopCache is used when caching is disabled. Every Get misses.
type noopCache struct{}

// NewNoopCache returns a Cache that stores nothing.
func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrCacheMiss }

func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }
