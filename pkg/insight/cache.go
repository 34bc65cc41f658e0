package insight

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mohnish27-dev/protocol-zero/pkg/cache"
)

// Cache stores generated insights by derived key.
type Cache interface {
	// Get returns the cached insight and true, or false on a miss.
	Get(ctx context.Context, key string) (Insight, bool, error)
	Set(ctx context.Context, key string, in Insight) error
}

// MemoryCache keeps insights in a bounded in-process LRU.
type MemoryCache struct {
	lru *cache.LRUCache[string, Insight]
}

// NewMemoryCache holds at most size insights, each for ttl. Zero ttl keeps
// entries until they are evicted.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: cache.NewLRUCache[string, Insight](size, cache.WithTTL(ttl))}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Insight, bool, error) {
	in, ok := c.lru.Get(key)
	return in, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, in Insight) error {
	c.lru.Put(key, in)
	return nil
}

// RedisCache stores insights as JSON strings with a TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache stores entries under prefix+key. An empty prefix becomes "insight:".
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "insight:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Insight, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Insight{}, false, nil
	}
	if err != nil {
		return Insight{}, false, errors.Join(ErrCacheUnavailable, err)
	}
	var in Insight
	if err := json.Unmarshal(raw, &in); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return Insight{}, false, nil
	}
	return in, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, in Insight) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
