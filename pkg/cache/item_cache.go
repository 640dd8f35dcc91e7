package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

const (
	// ItemCacheTTL is the time-to-live for a cached item collection.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "items"
)

// ItemCache is a Redis read model holding each user's full item collection
// as a single JSON value. The collection is small enough to serve whole
// (the web client holds it in memory anyway), so one key per user keeps
// invalidation trivial: any item write drops the user's key.
//
// Key format: "items:{userID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a user's cached item collection.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, userID int64) ([]models.Item, error) {
	data, err := c.client.Client().Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return items, nil
}

// Set stores a user's item collection with a 24-hour TTL.
func (c *ItemCache) Set(ctx context.Context, userID int64, items []models.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(userID), data, ItemCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached collection. Callers invoke it after any
// item write; the next read repopulates from the database.
func (c *ItemCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Client().Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "items:{userID}"
func (c *ItemCache) key(userID int64) string {
	return fmt.Sprintf("%s:%d", itemCacheKeyPrefix, userID)
}
