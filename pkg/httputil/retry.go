package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryableError marks an error as transient so that [Retry] tries again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with [RetryableError] are retried; other errors are
// returned immediately. Returns the last error, or ctx.Err() if cancelled
// while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// Transient reports whether an HTTP status is worth retrying.
func Transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
