package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"time"

	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Store is an echo rate limiter store that can also tell a denied client when to retry.
type Store interface {
	echomw.RateLimiterStore
	RetryAfter(identifier string) time.Duration
}

type memoryStore struct {
	*echomw.RateLimiterMemoryStore
	refill time.Duration
}

// NewMemoryStore allows limit requests per window for each identifier, local to the process.
// The bucket refills one request every window/limit.
func NewMemoryStore(limit int, window time.Duration) Store {
	if limit < 1 {
		limit = 1
	}
	refill := window / time.Duration(limit)
	return &memoryStore{
		RateLimiterMemoryStore: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(refill),
			Burst:     limit,
			ExpiresIn: window,
		}),
		refill: refill,
	}
}

func (m *memoryStore) RetryAfter(string) time.Duration {
	return m.refill
}

// RedisStore shares a fixed window across instances through INCR + PEXPIRE.
// Redis errors let the request through.
type RedisStore struct {
	Client  *redis.Client
	Prefix  string
	Limit   int
	Window  time.Duration
	Timeout time.Duration
}

func (r *RedisStore) ctx() (context.Context, context.CancelFunc) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (r *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	k := r.Prefix + identifier
	n, err := r.Client.Incr(ctx, k).Result()
	if err != nil {
		slog.Default().Error("ratelimit_unavailable", "error", err)
		return true, nil
	}
	if n == 1 {
		if err := r.Client.PExpire(ctx, k, r.Window).Err(); err != nil {
			slog.Default().Error("ratelimit_unavailable", "error", err)
		}
	}
	return n <= int64(r.Limit), nil
}

func (r *RedisStore) RetryAfter(identifier string) time.Duration {
	ctx, cancel := r.ctx()
	defer cancel()

	ttl, err := r.Client.PTTL(ctx, r.Prefix+identifier).Result()
	if err != nil || ttl < 0 {
		return r.Window
	}
	return ttl
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
