// Package cachemanager provides TTL caches for values loaded from slower
// backends, such as a column's card list read from sqlite.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by string key with a per-entry TTL.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Flush(ctx context.Context)
}

// Stats counts cache traffic.
type Stats struct {
	Hits   int64
	Misses int64
	Items  int
}
