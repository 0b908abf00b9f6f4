package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLSimilarity = 7 * 24 * time.Hour // frame similarity scores, invalidated by key rotation
	TTLFetchLock  = 10 * time.Minute   // advisory lock for missing-frame fetch dedup
	TTLDefault    = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixSimilarity = "similarity:"
	PrefixFetchLock  = "lock:"
)

// Service Redis-backed cache interface
type Service interface {
	// Generic operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Frame similarity memoization
	GetSimilarity(ctx context.Context, key string) (float64, bool, error)
	SetSimilarity(ctx context.Context, key string, score float64) error

	// AcquireLock sets key if absent with a TTL; returns true if acquired.
	// Best-effort dedup only, never required for correctness.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Utilities
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether Redis is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads a JSON value from the cache
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set writes a JSON value with a TTL
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, silently skip
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys from the cache
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists checks whether a key is present
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetSimilarity returns a memoized similarity score; ok is false on a miss
func (c *redisCache) GetSimilarity(ctx context.Context, key string) (float64, bool, error) {
	if c.client == nil {
		return 0, false, nil
	}
	val, err := c.client.Get(ctx, PrefixSimilarity+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt similarity entry for %q: %w", key, err)
	}
	return score, true, nil
}

// SetSimilarity memoizes a similarity score
func (c *redisCache) SetSimilarity(ctx context.Context, key string, score float64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, PrefixSimilarity+key,
		strconv.FormatFloat(score, 'f', -1, 64), TTLSimilarity).Err()
}

// AcquireLock sets key if absent with a TTL; returns true if acquired
func (c *redisCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c.client == nil {
		// without Redis every caller "wins" the lock; duplicate work is acceptable
		return true, nil
	}
	return c.client.SetNX(ctx, PrefixFetchLock+key, "1", ttl).Result()
}
