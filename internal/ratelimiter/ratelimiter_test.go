package ratelimiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gistbot/internal/ratelimiter"
)

func TestRateLimiterAllowsBurstPerUser(t *testing.T) {
	rl := ratelimiter.New(time.Hour)

	// Waits that would pass the deadline fail right away instead of blocking.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for range 2 {
		if err := rl.Wait(ctx, 1); err != nil {
			t.Fatalf("expected burst requests to pass, got %v", err)
		}
	}

	if err := rl.Wait(ctx, 1); err == nil {
		t.Fatalf("expected request over burst to be throttled")
	}

	if err := rl.Wait(ctx, 2); err != nil {
		t.Fatalf("expected other user to have own budget, got %v", err)
	}
}

func TestRateLimiterWaitFailsOnDoneContext(t *testing.T) {
	rl := ratelimiter.New(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimiterWaitRespectsContext(t *testing.T) {
	rl := ratelimiter.New(time.Hour)
	ctx := context.Background()

	for range 2 {
		if err := rl.Wait(ctx, 1); err != nil {
			t.Fatalf("unexpected wait error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, 1); err == nil {
		t.Fatalf("expected wait to fail when next slot is beyond deadline")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := ratelimiter.New(0)

	if rl != nil {
		t.Fatalf("expected disabled limiter to be nil")
	}

	for range 10 {
		if err := rl.Wait(context.Background(), 1); err != nil {
			t.Fatalf("unexpected wait error: %v", err)
		}
	}
}
