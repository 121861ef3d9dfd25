package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRateLimiter_Allow_WithinAndOverLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := limiter.Allow(ctx, "register:10.0.0.1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d should be allowed", i)
		assert.Equal(t, int64(i), d.Count)
		assert.Equal(t, int64(3-i), d.Remaining)
	}

	d, err := limiter.Allow(ctx, "register:10.0.0.1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)
	assert.Greater(t, d.ResetIn, time.Duration(0))
	assert.LessOrEqual(t, d.ResetIn, time.Hour)
}

func TestRateLimiter_Allow_KeysAreIndependent(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "register:10.0.0.1", 1, time.Hour)
	require.NoError(t, err)

	d, err := limiter.Allow(ctx, "register:10.0.0.2", 1, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_Allow_WindowExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	d, _ := limiter.Allow(ctx, "k", 1, time.Minute)
	require.False(t, d.Allowed)

	mr.FastForward(time.Minute + time.Second)

	d, err = limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(1), d.Count)
}

func TestRateLimiter_Allow_ExpiryNotExtendedByHits(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "k", 5, time.Minute)
	mr.FastForward(40 * time.Second)
	_, _ = limiter.Allow(ctx, "k", 5, time.Minute)

	ttl := mr.TTL(keyPrefix + "k")
	assert.LessOrEqual(t, ttl, 20*time.Second)
}

func TestRateLimiter_Allow_DisabledLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRateLimiter(client)

	d, err := limiter.Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_Allow_FailsOpenOnRedisError(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	mr.Close()

	d, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_Refund_ReturnsHit(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, limiter.Refund(ctx, "k"))

	d, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(1), d.Count)
}

func TestRateLimiter_Refund_AfterExpiryLeavesNoKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	require.NoError(t, limiter.Refund(ctx, "k"))
	assert.False(t, mr.Exists(keyPrefix+"k"))
}

func TestRateLimiter_Refund_NeverBelowZero(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	require.NoError(t, limiter.Refund(ctx, "k"))
	require.NoError(t, limiter.Refund(ctx, "k"))

	v, err := mr.Get(keyPrefix + "k")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}
