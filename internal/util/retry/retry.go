package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
	maxDelay            = 30 * time.Second
)

// Option configures a retry loop.
type Option func(*settings)

type settings struct {
	maxRetries   int
	initialDelay time.Duration
}

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(s *settings) {
		s.maxRetries = n
	}
}

// WithInitialDelay sets the delay before the first retry. Subsequent
// delays double, capped at 30 seconds.
func WithInitialDelay(d time.Duration) Option {
	return func(s *settings) {
		s.initialDelay = d
	}
}

// WithExponentialBackoff executes the operation, retrying failed attempts
// with exponentially increasing delays. Context cancellation is respected
// between attempts. Errors wrapped with Fatal are not retried.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	s := &settings{maxRetries: defaultMaxRetries, initialDelay: defaultInitialDelay}
	for _, opt := range opts {
		opt(s)
	}

	delay := s.initialDelay
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
			case <-time.After(delay):
				delay *= 2
				if delay > maxDelay {
					delay = maxDelay
				}
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
