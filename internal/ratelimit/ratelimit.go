// FilePath: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/internal/errors"
)

// Limiter throttles login attempts with a fixed window per key, counted
// in Redis so the limit holds across instances. A nil client disables
// throttling; Redis outages fail open so an infra problem never locks
// every account out.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit attempts per window. client may be
// nil to disable limiting.
func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow records one attempt for key and returns a rate limit error when
// the window budget is exhausted.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	if l == nil || l.client == nil {
		return nil
	}

	redisKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		nuts.L.Warnf("[RateLimit] Redis unavailable, allowing %s: %v", key, err)
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			nuts.L.Warnf("[RateLimit] Failed to set expiry for %s: %v", key, err)
		}
	}

	if count > int64(l.limit) {
		return errors.NewRateLimitError("too many attempts, try again later", nil)
	}
	return nil
}
