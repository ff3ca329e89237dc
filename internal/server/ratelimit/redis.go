package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed window limiter shared by every server instance
// pointing at the same Redis.
type RedisLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	rate      int
	window    time.Duration
	now       func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, keyPrefix string, rate int, window time.Duration) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "gophauth:rl:"
	}
	return &RedisLimiter{client: client, keyPrefix: keyPrefix, rate: rate, window: window, now: time.Now}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowID := r.now().Truncate(r.window).Unix()
	redisKey := fmt.Sprintf("%s%s:%d", r.keyPrefix, key, windowID)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}

	return incr.Val() <= int64(r.rate), nil
}

// Options configures New.
type Options struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Rate          int
	Window        time.Duration
}

// New returns a Redis limiter when an address is configured, an in-process
// limiter when only a rate is set and Noop otherwise. The returned close
// func releases the Redis connection pool.
func New(ctx context.Context, o Options) (Limiter, func() error, error) {
	if o.Rate <= 0 || o.Window <= 0 {
		return Noop{}, func() error { return nil }, nil
	}
	if o.RedisAddr == "" {
		return NewMemoryLimiter(o.Rate, o.Window), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     o.RedisAddr,
		Password: o.RedisPassword,
		DB:       o.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisLimiter(client, "", o.Rate, o.Window), client.Close, nil
}
