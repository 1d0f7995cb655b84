package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AttemptLimiter counts failed attempts per key inside a sliding window.
type AttemptLimiter interface {
	TooManyRecent(ctx context.Context, key string, now time.Time, limit int, window time.Duration) (bool, error)
	AddFailure(ctx context.Context, key string, now time.Time, window time.Duration) error
	Reset(ctx context.Context, key string) error
}

type memoryAttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func NewMemoryAttemptLimiter() AttemptLimiter {
	return &memoryAttemptLimiter{
		attempts: make(map[string][]time.Time),
	}
}

func (limiter *memoryAttemptLimiter) TooManyRecent(_ context.Context, key string, now time.Time, limit int, window time.Duration) (bool, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	pruned := limiter.pruneLocked(key, now, window)
	return len(pruned) >= limit, nil
}

func (limiter *memoryAttemptLimiter) AddFailure(_ context.Context, key string, now time.Time, window time.Duration) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	pruned := limiter.pruneLocked(key, now, window)
	pruned = append(pruned, now)
	limiter.attempts[key] = pruned
	return nil
}

func (limiter *memoryAttemptLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.attempts, key)
	return nil
}

func (limiter *memoryAttemptLimiter) pruneLocked(key string, now time.Time, window time.Duration) []time.Time {
	values := limiter.attempts[key]
	if len(values) == 0 {
		return []time.Time{}
	}

	threshold := now.Add(-window)
	pruned := make([]time.Time, 0, len(values))
	for _, value := range values {
		if value.After(threshold) {
			pruned = append(pruned, value)
		}
	}

	if len(pruned) == 0 {
		delete(limiter.attempts, key)
		return []time.Time{}
	}

	limiter.attempts[key] = pruned
	return pruned
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
