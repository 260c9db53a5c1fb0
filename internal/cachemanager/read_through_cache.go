package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads values through fn on a miss and caches the result.
// Errors are returned as-is and never cached.
type ReadThroughCache[V any, I any] struct {
	cache           CacheManager[V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[V any, I any](
	cache CacheManager[V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[V, I]) Get(ctx context.Context, key string, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate evicts keys so the next Get reloads them.
func (r *ReadThroughCache[V, I]) Invalidate(ctx context.Context, keys ...string) {
	if r.shouldSkipCache {
		return
	}
	r.cache.Delete(ctx, keys...)
}

// Reset evicts every cached value.
func (r *ReadThroughCache[V, I]) Reset(ctx context.Context) {
	if r.shouldSkipCache {
		return
	}
	r.cache.Flush(ctx)
}
