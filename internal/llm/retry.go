package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryProvider is a decorator that retries failed generation calls with
// exponential backoff. Every failure kind retries identically: the policy
// does not distinguish a malformed payload from a network timeout, only
// context cancellation stops the loop early. After the attempt budget is
// exhausted the last error is returned as-is for the caller to classify.
type RetryProvider struct {
	inner  Provider
	config RetryConfig

	// sleep is swapped out in tests to observe the backoff ladder
	// without waiting for it.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	return &RetryProvider{
		inner:  p,
		config: cfg,
		sleep:  sleepCtx,
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		// Budget exhausted: no final sleep.
		if attempt == r.config.MaxAttempts {
			break
		}

		if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the delay after the given failed attempt (1-based):
// InitialWait * Multiplier^(attempt-1), capped at MaxWait. No jitter;
// the ladder is deterministic.
func (r *RetryProvider) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if max := float64(r.config.MaxWait); r.config.MaxWait > 0 && wait > max {
		wait = max
	}
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
