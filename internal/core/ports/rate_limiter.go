package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of a single rate-limit check.
type RateDecision struct {
	Allowed   bool
	Count     int64
	Remaining int64
	// ResetIn is how long until the current window closes.
	ResetIn time.Duration
}

// RateLimiter counts hits per key inside a fixed window.
type RateLimiter interface {
	// Allow counts one hit for key. On backend failure it returns an allowing
	// decision together with the error.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error)
	// Refund gives back one hit counted by Allow in the current window.
	Refund(ctx context.Context, key string) error
}
