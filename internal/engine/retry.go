package engine

import (
	"context"
	"time"
)

// RetryPolicy bounds retries of an underlying lookup. Only errors accepted
// by Retryable are retried; everything else surfaces immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
}

// DecimalsRetryPolicy is the schedule used for asset metadata lookups:
// three retries at 1s, 2s, 4s, capped at 5s, on rate-limiting errors only.
func DecimalsRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
		MaxDelay:    5 * time.Second,
		Retryable:   IsRateLimited,
	}
}

// Do runs fn until it succeeds, exhausts attempts, or hits a non-retryable
// error. The delay doubles between attempts up to MaxDelay.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}
