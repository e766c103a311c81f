package texture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toteworks/mockup-renderer/internal/config"
)

// keyNamespace prefixes every texture entry so the keyspace can be shared
// with other services on the same Redis instance.
const keyNamespace = "texture"

// RedisCache implements Cache on Redis so texture work is shared across
// renderer replicas. Eviction is TTL-based.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed texture cache.
func NewRedisCache(cfg *config.RedisConfig, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

// NewRedisCacheFromClient creates a Redis cache from an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetOrCreate returns the cached bytes for key, invoking generate on a
// miss and storing the result with the configured TTL. A Redis read error
// is treated as a miss; a write error after successful generation is
// returned to the caller since the entry may silently vanish otherwise.
func (c *RedisCache) GetOrCreate(ctx context.Context, key Key, generate Generator) ([]byte, error) {
	cacheKey := fmt.Sprintf("%s/%s", keyNamespace, key.String())

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get key %s from Redis: %w", cacheKey, err)
	}

	data, err = generate()
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to set key %s in Redis: %w", cacheKey, err)
	}

	return data, nil
}
