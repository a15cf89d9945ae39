// Package cache keeps short-lived copies of owner-scoped list reads in Redis.
package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel comparison
	"fmt"           // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// errStale aborts a Set whose value predates an eviction
var errStale = errors.New("cache: value is stale")

// generationGrace keeps a counter alive longer than any in-flight read
const generationGrace = time.Hour

// Cache wraps a Redis client. A nil *Cache is valid and caches nothing.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache over rdb whose entries live for ttl
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// WalletsKey is the key of a user's wallet list
func WalletsKey(userID uint) string {
	return fmt.Sprintf("wallets:user:%d", userID)
}

// TransactionsKey is the key of a wallet's unfiltered transaction list
func TransactionsKey(walletID uint) string {
	return fmt.Sprintf("transactions:wallet:%d", walletID)
}

// Generation returns the invalidation counter of key. Read it before loading
// the value that will be passed to Set.
func (c *Cache) Generation(ctx context.Context, key string) int64 {
	if c == nil {
		return 0
	}
	gen, err := c.rdb.Get(ctx, generationKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logrus.WithError(err).WithField("key", key).Warn("Cache generation read failed")
	}
	return gen // Missing counter reads as zero
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false // Key does not exist
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry corrupt")
		return false
	}
	return true
}

// Set stores value in Redis as JSON unless key was invalidated after gen was read
func (c *Cache) Set(ctx context.Context, key string, gen int64, value any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
		return
	}
	genKey := generationKey(key)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale // A writer evicted the key while the value was loaded
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl) // Set value in Redis with TTL
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
	default:
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// Delete evicts keys from Redis and bumps their generations
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
			pipe.Expire(ctx, generationKey(key), c.ttl+generationGrace)
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("Cache eviction failed")
	}
}

func generationKey(key string) string {
	return key + ":gen"
}
