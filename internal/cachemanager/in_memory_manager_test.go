package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type exampleCard struct {
	ID string
}

func TestInMemoryCacheManager_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[[]exampleCard]("cards", time.Minute, time.Minute)

	_, ok := c.Get(ctx, "todo")
	require.False(t, ok)

	c.Set(ctx, "todo", []exampleCard{{ID: "a"}}, time.Minute)
	got, ok := c.Get(ctx, "todo")
	require.True(t, ok)
	require.Equal(t, []exampleCard{{ID: "a"}}, got)

	st := c.Stats()
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(1), st.Misses)
	require.Equal(t, 1, st.Items)
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[string]("short", time.Minute, time.Minute)

	c.Set(ctx, "k", "v", 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefreshExtendsTTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[string]("refresh", time.Minute, time.Minute)

	c.Set(ctx, "k", "v", 30*time.Millisecond)
	got, ok := c.GetWithRefresh(ctx, "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get(ctx, "k")
	require.True(t, ok, "refreshed entry should outlive its original ttl")
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[int]("ints", 0, 0)

	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", 2, 0)
	c.Set(ctx, "c", 3, 0)

	c.Delete(ctx, "a", "b")
	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
	_, ok = c.Get(ctx, "c")
	require.True(t, ok)

	c.Flush(ctx)
	require.Zero(t, c.Stats().Items)
}
