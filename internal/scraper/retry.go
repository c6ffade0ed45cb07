package scraper

import (
	"context"
	"errors"
	"time"
)

// retryPolicy implements exponential backoff with plain doubling. Delays are
// deterministic so candidate probes stay reproducible across runs.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func newRetryPolicy(cfg Config) retryPolicy {
	return retryPolicy{
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BackoffInitial,
		maxDelay:    cfg.BackoffMax,
	}
}

// ShouldRetry decides whether another attempt is allowed. attempt is
// 1-based: the attempt that just failed.
func (p retryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Retryable()
	}
	return true
}

// Backoff returns the wait before the next attempt. attempt is 1-based.
func (p retryPolicy) Backoff(attempt int) time.Duration {
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.maxDelay {
			return p.maxDelay
		}
	}
	if delay > p.maxDelay {
		return p.maxDelay
	}
	return delay
}
