// Package cache keeps the serialized category forest in redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTreeKey = "yoneltic:categories:tree"

// CategoryTree stores one payload per generation under Key:<gen>. Invalidate bumps the
// generation, so a payload built from rows read before the bump is never served again.
type CategoryTree struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func NewCategoryTree(client *redis.Client, ttl time.Duration) *CategoryTree {
	return &CategoryTree{Client: client, Key: DefaultTreeKey, TTL: ttl}
}

func (c *CategoryTree) genKey() string { return c.Key + ":gen" }

func (c *CategoryTree) payloadKey(gen int64) string { return c.Key + ":" + strconv.FormatInt(gen, 10) }

// Generation returns the current generation, 0 before the first invalidation.
func (c *CategoryTree) Generation(ctx context.Context) (int64, error) {
	gen, err := c.Client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("category tree cache generation: %w", err)
	}
	return gen, nil
}

// Get reports ok=false on a miss.
func (c *CategoryTree) Get(ctx context.Context, gen int64) ([]byte, bool, error) {
	b, err := c.Client.Get(ctx, c.payloadKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("category tree cache get: %w", err)
	}
	return b, true, nil
}

func (c *CategoryTree) Set(ctx context.Context, gen int64, payload []byte) error {
	if err := c.Client.Set(ctx, c.payloadKey(gen), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("category tree cache set: %w", err)
	}
	return nil
}

func (c *CategoryTree) Invalidate(ctx context.Context) error {
	if err := c.Client.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("category tree cache bump: %w", err)
	}
	return nil
}

// NewRedis parses a redis:// URL and checks connectivity.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
