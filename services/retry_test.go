package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func recordingPolicy(delays *[]time.Duration) RetryPolicy {
	p := DefaultRetryPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	return p
}

func TestRetryGivesUpAfterThreeTransientFailures(t *testing.T) {
	var delays []time.Duration
	calls := 0
	_, err := Retry(context.Background(), recordingPolicy(&delays), func(ctx context.Context) (int, error) {
		calls++
		return 0, genai.APIError{Code: 500}
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	var delays []time.Duration
	calls := 0
	got, err := Retry(context.Background(), recordingPolicy(&delays), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", genai.APIError{Code: 500}
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	var delays []time.Duration
	calls := 0
	_, err := Retry(context.Background(), recordingPolicy(&delays), func(ctx context.Context) (int, error) {
		calls++
		return 0, genai.APIError{Code: 400}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := DefaultRetryPolicy()
	p.BaseDelay = time.Hour
	_, err := Retry(ctx, p, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, genai.APIError{Code: 500}
	})

	assert.Equal(t, 1, calls)
	assert.Error(t, err)
}

func TestRetryDelay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(sleepContext(ctx, time.Hour), context.Canceled))
}
