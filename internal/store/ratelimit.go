package store

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter bounded-window throttling keyed by a client identifier
// (account, IP). Injected into handlers so it can be swapped in tests and is
// shared across server instances when backed by redis.
type RateLimiter interface {
	// Allow records one attempt for key and reports whether the attempt is
	// within the window threshold.
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisRateLimiter counts attempts in a fixed window using INCR + EXPIRE.
// The counter key expires with the window, so there is no manual sweep.
type RedisRateLimiter struct {
	c         *redis.Client
	prefix    string
	window    time.Duration
	threshold int
}

func NewRedisRateLimiter(c *redis.Client, prefix string, window time.Duration, threshold int) *RedisRateLimiter {
	return &RedisRateLimiter{c: c, prefix: prefix, window: window, threshold: threshold}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + ":" + key
	n, err := r.c.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// first attempt in this window starts the clock
		if err := r.c.Expire(ctx, k, r.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(r.threshold), nil
}

// MemoryRateLimiter single-process fallback for dev mode and tests.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	threshold int
	counts    map[string]*windowCount
	now       func() time.Time
}

type windowCount struct {
	n       int
	resetAt time.Time
}

func NewMemoryRateLimiter(window time.Duration, threshold int) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		window:    window,
		threshold: threshold,
		counts:    make(map[string]*windowCount),
		now:       time.Now,
	}
}

var _ RateLimiter = (*MemoryRateLimiter)(nil)

func (m *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	wc, ok := m.counts[key]
	if !ok || now.After(wc.resetAt) {
		m.counts[key] = &windowCount{n: 1, resetAt: now.Add(m.window)}
		return m.threshold >= 1, nil
	}
	wc.n++
	return wc.n <= m.threshold, nil
}
