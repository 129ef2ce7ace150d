package service

import (
	"context"
	"testing"
	"time"

	"filmoteca/backend/go/pkg/circuitbreaker"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2, time.Minute)
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ids := []uint{3, 2}
	require.NoError(t, c.Set(ctx, 1, ids))
	ids[0] = 99

	got, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{3, 2}, got, "cache keeps its own copy")

	require.NoError(t, c.Purge(ctx))
	_, ok, _ = c.Get(ctx, 1)
	assert.False(t, ok)
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute, nil), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 7, []uint{1, 2, 3}))
	got, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{1, 2, 3}, got)
	assert.Equal(t, time.Minute, mr.TTL("filmoteca:related:7"))

	require.NoError(t, c.Set(ctx, 8, nil))
	got, ok, err = c.Get(ctx, 8)
	require.NoError(t, err)
	assert.True(t, ok, "an empty ranking is still a cache hit")
	assert.Empty(t, got)
}

func TestRedisCache_Purge(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, c.Set(ctx, 1, []uint{2}))
	require.NoError(t, c.Set(ctx, 2, []uint{1}))

	require.NoError(t, c.Purge(ctx))

	assert.False(t, mr.Exists("filmoteca:related:1"))
	assert.False(t, mr.Exists("filmoteca:related:2"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newRedisCache(t)
	require.NoError(t, mr.Set("filmoteca:related:5", "not json"))

	_, ok, err := c.Get(context.Background(), 5)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_BreakerOpensWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	breaker := circuitbreaker.New(2, 1, time.Hour)
	c := NewRedisCache(client, time.Minute, breaker)
	mr.Close()

	assert.Error(t, c.Ping(ctx))
	assert.Error(t, c.Ping(ctx))
	assert.Equal(t, circuitbreaker.Open, breaker.State())

	_, _, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}
