package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/tripauth/domain"
)

// Config holds the fixed-window parameters for one limiter instance
type Config struct {
	Points        int
	Duration      time.Duration
	BlockDuration time.Duration
}

// FixedWindowLimiter implements domain.RateLimiter as a fixed-window counter
// on Redis. INCR is atomic, so concurrent consumers sharing a key cannot
// overshoot the budget by racing the check.
type FixedWindowLimiter struct {
	client *redis.Client
	prefix string
	config Config
}

// NewFixedWindowLimiter creates a limiter with its own key namespace
func NewFixedWindowLimiter(client *redis.Client, name string, config Config) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client: client,
		prefix: "rl:" + name + ":",
		config: config,
	}
}

// Consume takes one point for key. Once the budget is exhausted the key is
// extended to BlockDuration, so callers stay rejected for the full penalty
// even if the original window was about to roll over.
func (l *FixedWindowLimiter) Consume(ctx context.Context, key string) error {
	k := l.prefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("rate limiter unavailable: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, k, l.config.Duration).Err(); err != nil {
			return fmt.Errorf("rate limiter unavailable: %w", err)
		}
	}

	if count > int64(l.config.Points) {
		if count == int64(l.config.Points)+1 {
			if err := l.client.Expire(ctx, k, l.config.BlockDuration).Err(); err != nil {
				return fmt.Errorf("rate limiter unavailable: %w", err)
			}
		}
		return domain.ErrRateLimited
	}

	return nil
}

var _ domain.RateLimiter = (*FixedWindowLimiter)(nil)
