// Package backoff retries a call with deterministic exponential delays.
package backoff

import (
	"context"
	"fmt"
	"time"

	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// Policy controls Retry. The delay after a failed attempt n (0-indexed)
// is BaseDelay * 2^n; there is no jitter and no cap. Delays only separate
// attempts, so the final failure returns without the trailing wait.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits for d or until ctx is done. Nil means a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// Delay returns the wait that follows the given failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// Retry calls fn until it succeeds, fails with an error retryable rejects,
// or MaxAttempts calls have been made. The last error is returned wrapped.
func Retry[T any](ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = wait
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}

		delay := p.Delay(attempt)
		logger.FromContext(ctx).Warn("rate limited, retrying",
			"delay", delay,
			"attempt", attempt+1,
			"max_attempts", attempts,
			"error", err)
		if err := sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry wait: %w", err)
		}
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
