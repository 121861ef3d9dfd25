package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gcredit/registration-api/internal/core/ports"
)

const (
	keyPrefix      = "ratelimit:"
	defaultWindow  = time.Minute
	commandTimeout = 250 * time.Millisecond
)

// refundScript decrements a live counter only, so a refund that arrives after
// the window closed cannot leave a negative key without a TTL behind.
var refundScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and tonumber(current) > 0 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

// RateLimiter is a fixed-window counter backed by Redis. It implements
// ports.RateLimiter.
// Key format: ratelimit:<scope>:<subject>
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one hit for key and reports whether it fits in limit per window.
// A non-positive limit always allows. Errors are returned alongside an allowing
// decision so callers can fail open.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ports.RateDecision, error) {
	if limit <= 0 {
		return ports.RateDecision{Allowed: true}, nil
	}
	if window <= 0 {
		window = defaultWindow
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return ports.RateDecision{Allowed: true}, fmt.Errorf("rate limit %s: incr: %w", key, err)
	}

	// The first hit opens the window; a key that lost its expiry is repaired.
	resetIn, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || resetIn <= 0 {
		if expErr := l.client.PExpire(ctx, redisKey, window).Err(); expErr != nil {
			return ports.RateDecision{Allowed: true}, fmt.Errorf("rate limit %s: expire: %w", key, expErr)
		}
		resetIn = window
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return ports.RateDecision{
		Allowed:   count <= int64(limit),
		Count:     count,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

// Refund returns one hit to key's current window. It is a no-op once the
// window has expired.
func (l *RateLimiter) Refund(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := refundScript.Run(ctx, l.client, []string{keyPrefix + key}).Err(); err != nil {
		return fmt.Errorf("rate limit %s: refund: %w", key, err)
	}
	return nil
}
