package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares the query cache between processes. Each segment is
// query-escaped and joined with '|', so a prefix maps to one SCAN pattern.
type RedisCache struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisCache stores entries under namespace with the given TTL; ttl <= 0
// keeps entries until invalidated.
func NewRedisCache(rdb *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	if namespace == "" {
		namespace = "mashg:query"
	}
	return &RedisCache{rdb: rdb, namespace: namespace, ttl: ttl}
}

func (r *RedisCache) redisKey(k Key) string {
	parts := make([]string, len(k))
	for i, seg := range k {
		parts[i] = url.QueryEscape(seg)
	}
	return r.namespace + ":" + strings.Join(parts, "|")
}

func (r *RedisCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key Key, value []byte) error {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.rdb.Set(ctx, r.redisKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, prefix Key) error {
	exact := r.redisKey(prefix)
	if err := r.rdb.Del(ctx, exact).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", prefix, err)
	}

	pattern := exact + "|*"
	if len(prefix) == 0 {
		pattern = r.namespace + ":*"
	}

	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del %s: %w", prefix, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
