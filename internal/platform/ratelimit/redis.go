package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "passgate:ratelimit:"
	redisTimeout   = 250 * time.Millisecond
)

// RedisLimiter counts requests per key in fixed windows stored in Redis, so
// every replica shares the same budget.
type RedisLimiter struct {
	client    *redis.Client
	perMinute int
	logger    *slog.Logger
}

// Ensure RedisLimiter implements Limiter
var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter connects to the Redis server at redisURL (redis://...) and
// verifies the connection with PING.
func NewRedisLimiter(ctx context.Context, redisURL string, perMinute int, logger *slog.Logger) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisLimiterWithClient(client, perMinute, logger), nil
}

// NewRedisLimiterWithClient wraps an existing client.
func NewRedisLimiterWithClient(client *redis.Client, perMinute int, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perMinute: perMinute,
		logger:    logger.With("component", "redis_rate_limiter"),
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.perMinute <= 0 {
		return Decision{Allowed: true}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	redisKey := redisKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// The first request of a window creates the key with its expiry.
		pipe.SetNX(ctx, redisKey, 0, Window)
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		l.logger.Error("redis rate limiter error", "op", "incr", "error", err)
		return Decision{}, fmt.Errorf("failed to update rate counter: %w", err)
	}

	count := int(incr.Val())
	remaining := l.perMinute - count
	if remaining < 0 {
		remaining = 0
	}
	decision := Decision{
		Allowed:   count <= l.perMinute,
		Limit:     l.perMinute,
		Remaining: remaining,
	}
	if !decision.Allowed {
		retry := ttl.Val()
		if retry <= 0 {
			retry = Window
		}
		decision.RetryAfter = retry
	}
	return decision, nil
}

// Close implements Limiter.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
