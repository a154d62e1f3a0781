package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const userBurst = 2

// RateLimiter throttles summarization requests per user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	interval time.Duration
}

// New returns nil when interval is not positive; a nil RateLimiter never waits.
func New(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		return nil
	}

	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until userID may issue another request or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, userID int64) error {
	if rl == nil {
		return nil
	}

	return rl.limiter(userID).Wait(ctx)
}

func (rl *RateLimiter) limiter(userID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(rl.interval), userBurst)
		rl.limiters[userID] = l
	}

	return l
}
