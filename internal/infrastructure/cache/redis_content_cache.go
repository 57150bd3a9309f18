package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN while invalidating
const scanBatch = 200

// RedisContentCache implements ContentCache on Redis, shared by every API instance
type RedisContentCache struct {
	client redis.UniversalClient
}

// NewRedisContentCache creates a cache on an existing client
func NewRedisContentCache(client redis.UniversalClient) *RedisContentCache {
	return &RedisContentCache{client: client}
}

// Get returns a cached value
func (c *RedisContentCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value for ttl
func (c *RedisContentCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// InvalidatePrefix walks matching keys with SCAN and deletes them in batches.
// KEYS is avoided because it blocks the server.
func (c *RedisContentCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ ContentCache = (*RedisContentCache)(nil)
