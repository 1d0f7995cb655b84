package api

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisAttemptKeyPrefix = "sprintdesk:attempts:"

// redisAttemptLimiter keeps one sorted set per key, scored by attempt time,
// so every API instance shares the same window.
type redisAttemptLimiter struct {
	client  redis.UniversalClient
	prefix  string
	counter atomic.Uint64
}

func NewRedisAttemptLimiter(client redis.UniversalClient) AttemptLimiter {
	return &redisAttemptLimiter{client: client, prefix: redisAttemptKeyPrefix}
}

func (limiter *redisAttemptLimiter) redisKey(key string) string {
	return limiter.prefix + key
}

func windowFloor(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixNano(), 10)
}

func (limiter *redisAttemptLimiter) TooManyRecent(ctx context.Context, key string, now time.Time, limit int, window time.Duration) (bool, error) {
	redisKey := limiter.redisKey(key)
	pipe := limiter.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+windowFloor(now, window))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("count attempts: %w", err)
	}
	return count.Val() >= int64(limit), nil
}

func (limiter *redisAttemptLimiter) AddFailure(ctx context.Context, key string, now time.Time, window time.Duration) error {
	redisKey := limiter.redisKey(key)
	member := fmt.Sprintf("%d-%d", now.UnixNano(), limiter.counter.Add(1))

	pipe := limiter.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+windowFloor(now, window))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (limiter *redisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := limiter.client.Del(ctx, limiter.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}
