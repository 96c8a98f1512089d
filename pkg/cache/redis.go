package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by [RedisCache].
const DefaultRedisPrefix = "reebsmooth:"

// RedisCache stores entries in Redis. Transient network failures are retried
// with [RetryWithBackoff].
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis server at url
// (redis://[user:pass@]host:port/db) and verifies the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := &RedisCache{client: redis.NewClient(opts), prefix: DefaultRedisPrefix}
	if err := c.retry(ctx, func() error { return c.client.Ping(ctx).Err() }); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return c, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry(ctx, func() error {
		return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	})
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return c.client.Del(ctx, c.prefix+key).Err()
	})
}

// Clear removes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 500).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			removed += int(n)
			if err != nil {
				return removed, err
			}
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// retry runs fn, retrying network failures.
func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, func() error {
		err := fn()
		var netErr net.Error
		if errors.As(err, &netErr) {
			return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		return err
	})
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
