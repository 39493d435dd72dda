package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

// GetMediaDetails returns the cached JSON for the media, or nil on a miss.
func (c *Cache) GetMediaDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	log.Printf("getting entry in cache for media #%s...", id)

	val, err := c.client.Get(ctx, getCacheKey(id.String(), false)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

func (c *Cache) GetEtagMediaDetails(ctx context.Context, id uuid.UUID) (string, error) {
	val, err := c.client.Get(ctx, getCacheKey(id.String(), true)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil // cache miss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

func (c *Cache) SetMediaDetails(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
	log.Printf("creating entry in cache for media #%s, valid until %s...", id, validUntil.Format(time.RFC1123))

	if err := c.client.Set(ctx, getCacheKey(id.String(), false), data, time.Until(validUntil)).Err(); err != nil {
		log.Printf("redis set failed for media #%s: %v", id, err)
	}
}

func (c *Cache) SetEtagMediaDetails(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
	if err := c.client.Set(ctx, getCacheKey(id.String(), true), etag, time.Until(validUntil)).Err(); err != nil {
		log.Printf("redis set failed for etag of media #%s: %v", id, err)
	}
}

func (c *Cache) DeleteMediaDetails(ctx context.Context, id uuid.UUID) error {
	log.Printf("deleting entry in cache for media #%s...", id)

	if err := c.client.Del(ctx, getCacheKey(id.String(), false)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteEtagMediaDetails(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, getCacheKey(id.String(), true)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id string, etag bool) string {
	if etag {
		return "etag:media:" + id
	}
	return "media:" + id
}
