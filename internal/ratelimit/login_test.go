package ratelimit

import (
	"context"
	"os"
	"testing"

	"github.com/oklog/ulid/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisClientForTest(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestLoginLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewLoginLimiter(LoginLimiterParams{
		Cfg: config.Config{RateLimit: config.RateLimitConfig{LoginPerMinute: 5, LoginBurst: 2}},
		Log: zap.NewNop(),
	})
	assert.False(t, limiter.Enabled())
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1").Allowed)
	}
}

func TestLoginLimiterExhaustsBurst(t *testing.T) {
	client := newRedisClientForTest(t)
	limiter := NewLoginLimiter(LoginLimiterParams{
		Cfg:    config.Config{RateLimit: config.RateLimitConfig{LoginPerMinute: 1, LoginBurst: 2}},
		Client: client,
		Log:    zap.NewNop(),
	})
	require.True(t, limiter.Enabled())

	ip := "test-" + ulid.Make().String()
	ctx := context.Background()
	assert.True(t, limiter.Allow(ctx, ip).Allowed)
	assert.True(t, limiter.Allow(ctx, ip).Allowed)

	denied := limiter.Allow(ctx, ip)
	assert.False(t, denied.Allowed)
	assert.Positive(t, denied.RetryAfter)
}

func TestLockerIsExclusive(t *testing.T) {
	client := newRedisClientForTest(t)
	locker := NewLocker(client)
	ctx := context.Background()
	key := "test-lock-" + ulid.Make().String()

	token, ok, err := locker.TryLock(ctx, key, defaultBucketTTL(1, 1))
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, key, defaultBucketTTL(1, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, key, token))
	_, ok, err = locker.TryLock(ctx, key, defaultBucketTTL(1, 1))
	require.NoError(t, err)
	assert.True(t, ok)
}
