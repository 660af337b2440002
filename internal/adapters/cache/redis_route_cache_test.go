package cache

import (
	"context"
	"encoding/json"
	"ev-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T, ttl time.Duration) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRouteCache(client, ttl), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	c, _ := newMiniredisCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a;b")
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.RouteSummary{DistanceKm: 451.2, DurationMinutes: 300, Geometry: json.RawMessage(`"poly"`)}
	require.NoError(t, c.Put(ctx, "a;b", want))

	got, ok, err := c.Get(ctx, "a;b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.DistanceKm, got.DistanceKm)
	assert.Equal(t, want.DurationMinutes, got.DurationMinutes)
	assert.JSONEq(t, `"poly"`, string(got.Geometry))
}

func TestRedisRouteCacheExpires(t *testing.T) {
	c, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", domain.RouteSummary{DistanceKm: 1}))
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheCorruptValue(t *testing.T) {
	c, mr := newMiniredisCache(t, time.Minute)
	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "not json"))

	_, _, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestNewRedisClientPing(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := NewRedisClient(context.Background(), addr)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), addr)
	assert.Error(t, err)
}
