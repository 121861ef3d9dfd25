package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gcredit/registration-api/internal/api/metrics"
	"github.com/gcredit/registration-api/internal/core/domain"
	"github.com/gcredit/registration-api/internal/core/ports"
)

// RateLimitConfig sets the per-client budget for one route.
type RateLimitConfig struct {
	// Scope namespaces the counter keys, e.g. "register".
	Scope  string
	Limit  int
	Window time.Duration
}

// RateLimit throttles requests per client IP. Requests rejected as invalid
// input (400) hand their hit back, so only attempts that reach the store
// count. Limiter failures let the request through.
func RateLimit(limiter ports.RateLimiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil || cfg.Limit <= 0 {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := cfg.Scope + ":" + clientKey(c)

			decision, err := limiter.Allow(ctx, key, cfg.Limit, cfg.Window)
			if err != nil {
				metrics.RateLimiterErrorsTotal.Inc()
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.ResetIn.Seconds()))))
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded, try again later")
			}

			err = next(c)
			if inputRejected(err) {
				if rerr := limiter.Refund(context.WithoutCancel(ctx), key); rerr != nil {
					metrics.RateLimiterErrorsTotal.Inc()
					log.Warn().Err(rerr).Str("scope", cfg.Scope).Msg("rate limit refund failed")
				}
			}
			return err
		}
	}
}

// inputRejected reports whether err is a 400 caused by the request body.
func inputRejected(err error) bool {
	if err == nil {
		return false
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var he *echo.HTTPError
	return errors.As(err, &he) && he.Code == http.StatusBadRequest
}

func clientKey(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}
