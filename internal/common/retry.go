package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/agency-pulse/internal/service"
)

var (
	// ErrRateLimit means a sheet host or the Sheets API throttled us.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries means every configured fetch attempt failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks whether a failed sheet fetch may succeed on a later
// attempt. Errors without this marker are retried.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// ClassifyStatus wraps err according to the HTTP status a sheet source
// answered with. 429 becomes ErrRateLimit, which waits the full MaxDelay
// before the next attempt. Other 5xx answers are retryable and the rest are
// final, since a missing or private sheet will not appear by itself.
func ClassifyStatus(code int, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimit, err)
	case code >= http.StatusInternalServerError:
		return &RetryableError{Err: err, Retryable: true}
	default:
		return &RetryableError{Err: err, Retryable: false}
	}
}

// WithRetry runs operation until it succeeds, returns a final error, or
// opts.MaxAttempts is used up. Sync passes fetch.retry_attempts, which
// defaults to a single attempt.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	delay := opts.InitialDelay

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(err, &retryableErr) && !retryableErr.Retryable {
			return err
		}

		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
		}

		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * opts.Multiplier)
			if delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}

	return ErrMaxRetries
}
