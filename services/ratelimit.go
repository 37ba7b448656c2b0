package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ProviderLimiter paces outgoing provider requests with a token bucket.
// Every attempt, retries included, takes a token.
type ProviderLimiter struct {
	limiter *rate.Limiter
}

func NewProviderLimiter(requestsPerMinute, burst int) *ProviderLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &ProviderLimiter{limiter: rate.NewLimiter(limit, burst)}
}

func (l *ProviderLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
