package reports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "odyssey:reports:"

// Cache keeps short-lived report payloads in Redis. A nil Cache or client
// disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// FetchJSON loads key into dest, or runs loader and stores its result.
// Redis failures fall through to the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("reports: loader required")
	}
	if c != nil && c.client != nil && c.ttl > 0 {
		raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
		if err == nil && json.Unmarshal(raw, dest) == nil {
			return nil
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil && c.ttl > 0 {
		_ = c.client.Set(ctx, cachePrefix+key, raw, c.ttl).Err()
	}
	return json.Unmarshal(raw, dest)
}
