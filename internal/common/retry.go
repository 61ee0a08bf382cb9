package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tdm-calculator/internal/service"
)

// ErrMaxRetries is returned once every attempt failed with a transient error.
var ErrMaxRetries = errors.New("max retries exceeded")

// DefaultRetry is used for any zero field of the options passed to WithRetry.
var DefaultRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2,
}

// TransientError marks a failure that may succeed when repeated, such as a
// lock held by another writer.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth another attempt: a busy database,
// an expired deadline, or anything wrapped in TransientError. Stale
// revisions and validation failures are not.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.Is(err, ErrDatabaseBusy) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &transient)
}

func withDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRetry.MaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultRetry.InitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultRetry.MaxDelay
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = DefaultRetry.Multiplier
	}
	return opts
}

// backoff returns the delay before the given retry, counting from 1.
func backoff(opts service.RetryOptions, retry int) time.Duration {
	d := float64(opts.InitialDelay)
	for i := 1; i < retry; i++ {
		d *= opts.Multiplier
		if d >= float64(opts.MaxDelay) {
			return opts.MaxDelay
		}
	}
	return time.Duration(d)
}

// WithRetry runs op until it succeeds, fails permanently, or runs out of
// attempts. The context is checked between attempts.
func WithRetry(ctx context.Context, op func() error, opts service.RetryOptions) error {
	return WithRetryIf(ctx, op, opts, IsTransient)
}

// WithRetryIf is WithRetry with a caller-chosen retry test. Writes that are
// not idempotent use it to retry only failures known to have written
// nothing.
func WithRetryIf(ctx context.Context, op func() error, opts service.RetryOptions, retryable func(error) bool) error {
	opts = withDefaults(opts)

	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil || !retryable(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		wait := backoff(opts, attempt)
		slog.Warn("Transient failure, retrying", "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
