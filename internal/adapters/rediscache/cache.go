// Package rediscache provides an optional Redis-backed track cache for
// deployments that share the resolution memo table across instances. When
// Redis is not configured or unreachable, the caller falls back to the
// SQLite cache.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

const keyPrefix = "track:"

// Cache implements ports.TrackCache on Redis. Entries are durable (no TTL).
type Cache struct {
	client *redis.Client
}

var _ ports.TrackCache = (*Cache)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("rediscache: %w", err)
	}
	return &Cache{client: client}, nil
}

// Close releases the client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return domain.CacheEntry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.CacheEntry{}, fmt.Errorf("rediscache: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("rediscache: %w", err)
	}
	return entry, nil
}

func (c *Cache) Put(ctx context.Context, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("rediscache: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+entry.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("rediscache: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("rediscache: %w", err)
	}
	return nil
}
