package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache stores tenant records in Redis so multiple service instances
// share one cache and invalidation (e.g. tenant deactivation) takes effect
// fleet-wide within one TTL.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed tenant cache.
// Panics if client is nil to fail fast during initialization.
func NewRedisCache(client *redis.Client, keyPrefix string) Cache {
	if client == nil {
		panic("tenant: redis client is required")
	}
	if keyPrefix == "" {
		keyPrefix = "tenant:"
	}
	return &redisCache{client: client, prefix: keyPrefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// Treat misses and Redis failures alike: fall through to the provider.
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, t *Tenant, ttl time.Duration) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.prefix+key).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
