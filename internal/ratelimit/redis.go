package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter with a Redis fixed-window counter,
// shared across all server instances.
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
}

// NewRedisLimiter creates a new Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		cfg:    cfg,
	}
}

// Allow increments the key's window counter, setting the window TTL on
// first use, and reports whether the counter is within the limit.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.cfg.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(r.cfg.RequestsPerWindow), nil
}

// Ensure RedisLimiter implements Limiter.
var _ Limiter = (*RedisLimiter)(nil)
