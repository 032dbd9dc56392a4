package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a read-through JSON cache in Redis. A nil Cache disables caching.
type Cache struct {
	rdb redis.Cmdable // Redis client
	ttl time.Duration // Lifetime of every entry
}

// NewCache wraps a Redis client with a fixed TTL
func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// BalanceKey is the cache key of a user's balance in a wallet
func BalanceKey(walletName, userID string) string {
	return "wallet:" + walletName + ":balance:" + userID
}

// HistoryPrefix prefixes every cached history page of a user in a wallet
func HistoryPrefix(walletName, userID string) string {
	return "wallet:" + walletName + ":history:" + userID
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil // Caching disabled
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// Set stores value as JSON with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate drops the cached balance and every cached history page of a user
func (c *Cache) Invalidate(ctx context.Context, walletName, userID string) error {
	if c == nil {
		return nil
	}
	keys := []string{BalanceKey(walletName, userID)}
	iter := c.rdb.Scan(ctx, 0, HistoryPrefix(walletName, userID)+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()) // Collect history pages
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, keys...).Err() // Delete all collected keys
}
