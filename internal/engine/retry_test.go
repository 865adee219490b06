package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond, Retryable: IsRateLimited}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("rate limit exceeded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts mismatch: %d != 3", attempts)
	}
}

func TestRetryPolicyGivesUpAfterMaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond, Retryable: IsRateLimited}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("429 too many requests")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if attempts != 4 {
		t.Fatalf("attempts mismatch: %d != 4", attempts)
	}
}

func TestRetryPolicyDoesNotRetryNonRetryable(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond, Retryable: IsRateLimited}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("execution reverted")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("non-retryable error must fail immediately, got %d attempts", attempts)
	}
}

func TestRetryPolicyHonorsContextCancellation(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Hour, Retryable: IsRateLimited}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func(context.Context) error {
		return errors.New("rate limit")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("HTTP 429 Too Many Requests"), true},
		{errors.New("rate limit exceeded for key"), true},
		{errors.New("request limit exceeded"), true},
		{errors.New("execution reverted"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsRateLimited(tc.err); got != tc.want {
			t.Fatalf("IsRateLimited(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
