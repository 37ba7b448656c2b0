package services

import (
	"context"
	"time"

	"sareeapi/pkg/logger"
)

// RetryPolicy retries transient failures with exponential backoff starting at BaseDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
	// Sleep waits between attempts; nil uses a context aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   IsTransient,
	}
}

// NoRetry runs a single attempt.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// Delay is the wait after the given failed attempt (1-based): BaseDelay * 2^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn until it succeeds, fails with a non retryable error, or attempts run out.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= maxAttempts || !retryable(err) || ctx.Err() != nil {
			return zero, err
		}
		delay := p.Delay(attempt)
		logger.Warn("Transient provider error, retrying", logger.Fields{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}
