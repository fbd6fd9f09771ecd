package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	trendingCacheKey = "books:trending"
	bookCacheKeyFmt  = "books:detail:%d"
)

// BookCache stores serialized book payloads in redis. A nil *BookCache is a
// valid no-op cache, used when REDIS_URL is empty and in tests.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache connects to redis and verifies the connection
func NewBookCache(redisURL, password string, ttl time.Duration) (*BookCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &BookCache{client: rdb, ttl: ttl}, nil
}

// NewBookCacheWithClient wraps an existing client
func NewBookCacheWithClient(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

func (c *BookCache) enabled() bool {
	return c != nil && c.client != nil
}

// GetTrending decodes the cached trending payload into dest. Reports false on a miss.
func (c *BookCache) GetTrending(ctx context.Context, dest any) (bool, error) {
	return c.get(ctx, trendingCacheKey, dest)
}

func (c *BookCache) SetTrending(ctx context.Context, value any) error {
	return c.set(ctx, trendingCacheKey, value)
}

func (c *BookCache) GetBook(ctx context.Context, id int64, dest any) (bool, error) {
	return c.get(ctx, fmt.Sprintf(bookCacheKeyFmt, id), dest)
}

func (c *BookCache) SetBook(ctx context.Context, id int64, value any) error {
	return c.set(ctx, fmt.Sprintf(bookCacheKeyFmt, id), value)
}

// InvalidateBook drops the book's detail entry and the trending ranking
func (c *BookCache) InvalidateBook(ctx context.Context, id int64) error {
	return c.InvalidateBooks(ctx, id)
}

// InvalidateBooks drops the trending ranking and the detail entry of every given book
func (c *BookCache) InvalidateBooks(ctx context.Context, ids ...int64) error {
	if !c.enabled() {
		return nil
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, trendingCacheKey)
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(bookCacheKeyFmt, id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *BookCache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *BookCache) get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *BookCache) set(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
