package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/libyanfood/site/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "content:all", []byte(`{"hero":{}}`), time.Minute)
	got, ok := c.Get(ctx, "content:all")
	require.True(t, ok)
	assert.Equal(t, `{"hero":{}}`, string(got))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()

	c.Set(ctx, "short", []byte("x"), 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()

	c.Set(ctx, "content:all", []byte("1"), time.Minute)
	c.Set(ctx, "content:section:hero", []byte("2"), time.Minute)
	c.Set(ctx, "stats", []byte("3"), time.Minute)

	c.DeleteByPrefix(ctx, "content:")

	_, ok := c.Get(ctx, "content:all")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "content:section:hero")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "stats")
	assert.True(t, ok)

	require.NoError(t, c.Close())
	_, ok = c.Get(ctx, "stats")
	assert.False(t, ok)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := cache.NewRedis("", "foodsite:")
	assert.Error(t, err)

	_, err = cache.NewRedis("http://not-redis", "foodsite:")
	assert.Error(t, err)
}
