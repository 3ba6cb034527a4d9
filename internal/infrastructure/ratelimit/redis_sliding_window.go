package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

// RedisSlidingWindow keeps each identity's window in a Redis sorted set scored
// by timestamp, so several booking instances can share one limit. The
// semantics match SlidingWindow: lazy pruning, inclusive rejection at max, and
// a check step that never records.
type RedisSlidingWindow struct {
	client    redis.UniversalClient
	window    time.Duration
	max       int
	keyPrefix string
	logger    logger.Logger
}

// Lua script for pruning stale members and counting the remainder in one
// round trip. KEYS[1] is the identity key, ARGV[1] the cutoff in unix millis.
const pruneAndCountScript = `
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
return redis.call('ZCARD', KEYS[1])
`

// NewRedisSlidingWindow creates a Redis-backed limiter.
func NewRedisSlidingWindow(
	client redis.UniversalClient,
	window time.Duration,
	max int,
	keyPrefix string,
	log logger.Logger,
) (*RedisSlidingWindow, error) {
	if client == nil {
		return nil, errors.ErrInternal("redis client is required")
	}
	if keyPrefix == "" {
		keyPrefix = "railtix:ratelimit"
	}

	return &RedisSlidingWindow{
		client:    client,
		window:    window,
		max:       max,
		keyPrefix: keyPrefix,
		logger:    log.WithComponent("redis_rate_limiter"),
	}, nil
}

// Allow prunes the identity's set and reports whether another event fits.
func (r *RedisSlidingWindow) Allow(ctx context.Context, identity string, now time.Time) (bool, error) {
	count, err := r.pruneAndCount(ctx, identity, now)
	if err != nil {
		return false, err
	}
	return count < int64(r.max), nil
}

// Record appends now to the identity's set and refreshes its expiry. Member
// IDs are random so two events in the same millisecond both count.
func (r *RedisSlidingWindow) Record(ctx context.Context, identity string, now time.Time) error {
	key := r.key(identity)

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.PExpire(ctx, key, r.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to record rate limit entry")
	}
	return nil
}

// Remaining reports the identity's unused budget in the current window.
func (r *RedisSlidingWindow) Remaining(ctx context.Context, identity string, now time.Time) (int, error) {
	count, err := r.pruneAndCount(ctx, identity, now)
	if err != nil {
		return 0, err
	}

	remaining := r.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (r *RedisSlidingWindow) pruneAndCount(ctx context.Context, identity string, now time.Time) (int64, error) {
	cutoff := now.Add(-r.window).UnixMilli()

	result, err := r.client.Eval(ctx, pruneAndCountScript, []string{r.key(identity)}, cutoff).Result()
	if err != nil {
		return 0, errors.Wrap(err, "rate limit check failed")
	}

	count, ok := result.(int64)
	if !ok {
		return 0, errors.ErrInternal(fmt.Sprintf("unexpected script result type %T", result))
	}
	return count, nil
}

func (r *RedisSlidingWindow) key(identity string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, identity)
}
