package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 3 * time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier wraps a Summarizer and retries transient failures with a fixed delay.
type Retrier struct {
	next        Summarizer
	maxAttempts int
	delay       time.Duration
	sleep       Sleeper
	onRetry     func(attempt int, err error)
	log         *slog.Logger
}

type RetryOption func(*Retrier)

func WithMaxAttempts(n int) RetryOption {
	return func(r *Retrier) {
		r.maxAttempts = max(n, 1)
	}
}

func WithDelay(d time.Duration) RetryOption {
	return func(r *Retrier) {
		r.delay = max(d, 0)
	}
}

func WithSleeper(sleep Sleeper) RetryOption {
	return func(r *Retrier) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithOnRetry registers a hook called before each wait between attempts.
func WithOnRetry(fn func(attempt int, err error)) RetryOption {
	return func(r *Retrier) {
		r.onRetry = fn
	}
}

func NewRetrier(next Summarizer, log *slog.Logger, opts ...RetryOption) *Retrier {
	r := &Retrier{
		next:        next,
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultRetryDelay,
		sleep:       SleepContext,
		log:         log,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Summarize calls the wrapped summarizer up to maxAttempts times. Only transient
// failures are retried; any other failure, or a transient one on the last attempt,
// is returned as is.
func (r *Retrier) Summarize(
	ctx context.Context,
	req Request,
	credential string,
) (string, error) {
	var err error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var summary string

		summary, err = r.next.Summarize(ctx, req, credential)
		if err == nil {
			return summary, nil
		}

		if !IsTransient(err) || attempt == r.maxAttempts {
			return "", err
		}

		r.log.WarnContext(ctx, "Transient summarization failure, retrying",
			"error", err,
			"attempt", attempt,
			"maxAttempts", r.maxAttempts,
			"delay", r.delay)

		if r.onRetry != nil {
			r.onRetry(attempt, err)
		}

		if sleepErr := r.sleep(ctx, r.delay); sleepErr != nil {
			return "", errors.Join(err, fmt.Errorf("wait before retry: %w", sleepErr))
		}
	}

	return "", err
}
