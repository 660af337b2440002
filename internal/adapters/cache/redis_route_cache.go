package cache

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "evroute:route:"

// RedisRouteCache stores route summaries as JSON strings with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

// NewRedisClient opens a client and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.RouteSummary, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RouteSummary{}, false, nil
	}
	if err != nil {
		return domain.RouteSummary{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var s domain.RouteSummary
	if err := json.Unmarshal(val, &s); err != nil {
		return domain.RouteSummary{}, false, fmt.Errorf("get route cache: decode %q: %w", key, err)
	}
	return s, true, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, key string, s domain.RouteSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	return nil
}
