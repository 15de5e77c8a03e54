package cache

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// Retry
// =============================================================================

// RetryableError marks an error as transient. Only marked errors are retried.
type RetryableError struct{ Err error }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, was marked Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	Attempts int           // total calls, including the first
	Initial  time.Duration // delay before the second call
	Max      time.Duration // cap on any single delay; 0 means no cap
}

// DefaultBackoff is used for connecting to cache and source backends.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 250 * time.Millisecond, Max: 2 * time.Second}

// Retry calls fn until it succeeds, returns an error that is not
// retryable, or the attempts are used up. The last error is returned.
// Waiting is interrupted by ctx.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return err
}

// RetryWithBackoff retries fn with DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
