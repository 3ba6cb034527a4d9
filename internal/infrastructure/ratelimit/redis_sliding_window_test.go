package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtix/railtix/internal/infrastructure/ratelimit"
	"github.com/railtix/railtix/pkg/logger"
)

func newRedisWindow(t *testing.T, window time.Duration, max int) *ratelimit.RedisSlidingWindow {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl, err := ratelimit.NewRedisSlidingWindow(client, window, max, "test:ratelimit", logger.NewNoopLogger())
	require.NoError(t, err)
	return rl
}

func TestRedisSlidingWindow_AllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	rl := newRedisWindow(t, 15*time.Minute, 10)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		allowed, err := rl.Allow(ctx, "alice", now)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		require.NoError(t, rl.Record(ctx, "alice", now))
	}

	allowed, err := rl.Allow(ctx, "alice", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisSlidingWindow_EntriesExpireAfterWindow(t *testing.T) {
	ctx := context.Background()
	rl := newRedisWindow(t, 15*time.Minute, 3)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Record(ctx, "bob", start))
	}

	allowed, err := rl.Allow(ctx, "bob", start.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = rl.Allow(ctx, "bob", start.Add(16*time.Minute))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisSlidingWindow_Remaining(t *testing.T) {
	ctx := context.Background()
	rl := newRedisWindow(t, 30*time.Minute, 3)
	now := time.Now()

	remaining, err := rl.Remaining(ctx, "carol", now)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)

	require.NoError(t, rl.Record(ctx, "carol", now))
	require.NoError(t, rl.Record(ctx, "carol", now))

	remaining, err = rl.Remaining(ctx, "carol", now)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestRedisSlidingWindow_SameMillisecondEventsBothCount(t *testing.T) {
	ctx := context.Background()
	rl := newRedisWindow(t, 15*time.Minute, 2)
	now := time.Now()

	require.NoError(t, rl.Record(ctx, "dave", now))
	require.NoError(t, rl.Record(ctx, "dave", now))

	allowed, err := rl.Allow(ctx, "dave", now)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisSlidingWindow_RequiresClient(t *testing.T) {
	_, err := ratelimit.NewRedisSlidingWindow(nil, time.Minute, 1, "", logger.NewNoopLogger())
	assert.Error(t, err)
}
