package storage

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheArea writes each record under its own sequenced Redis key
// `<tag>:<seq>`, with an optional TTL, grounded on spec.md §4.6's "a Cache
// area behaves like a Directory area but keyed on Redis instead of the
// filesystem" rule.
type CacheArea struct {
	client *redis.Client
	ttl    time.Duration
	seq    atomic.Uint64
}

// NewCacheArea returns a CacheArea backed by client, storing each payload
// for ttl (0 means no expiry).
func NewCacheArea(client *redis.Client, ttl time.Duration) *CacheArea {
	return &CacheArea{client: client, ttl: ttl}
}

// Write SETs payload under a fresh `<tag>:<seq>` key.
func (a *CacheArea) Write(ctx context.Context, tag string, payload []byte) error {
	seq := a.seq.Add(1)
	key := fmt.Sprintf("%s:%d", tag, seq)
	if err := a.client.Set(ctx, key, payload, a.ttl).Err(); err != nil {
		return fmt.Errorf("cache area: set %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (a *CacheArea) Close() error {
	if err := a.client.Close(); err != nil {
		return fmt.Errorf("cache area: close: %w", err)
	}
	return nil
}
