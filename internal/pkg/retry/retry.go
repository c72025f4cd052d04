// Package retry implements the bounded retry policy for transient storage
// contention. Only errors explicitly marked transient are retried, with
// exponential backoff; everything else is surfaced to the caller unchanged.
// When the retry budget is exhausted the last transient error is wrapped in
// an errs.UnavailableError so raw storage errors never leak to the boundary.
package retry

import (
	"context"
	"errors"
	"time"

	"escrow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// ErrTransient marks an error as retryable transaction contention.
// Storage adapters wrap serialization failures and deadlocks with this
// sentinel; business errors must never carry it.
var ErrTransient = errors.New("transient storage error")

// MarkTransient wraps err so the retry policy treats it as retryable.
// Returns nil when err is nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{cause: err}
}

type transientError struct {
	cause error
}

func (e *transientError) Error() string {
	return "transient storage error: " + e.cause.Error()
}

func (e *transientError) Unwrap() error {
	return ErrTransient
}

// Cause returns the wrapped storage error.
func (e *transientError) Cause() error {
	return e.cause
}

const (
	maxRetries      = 5
	initialInterval = 20 * time.Millisecond
	maxInterval     = 500 * time.Millisecond
)

// Transient runs op, retrying only on errors marked with ErrTransient, using
// bounded exponential backoff. After maxRetries attempts the last transient
// error is surfaced as an UnavailableError named after the operation.
// Non-transient errors stop the retry loop immediately.
func Transient(ctx context.Context, operation string, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = maxInterval

	err := backoff.Retry(func() error {
		opErr := op()
		if opErr == nil {
			return nil
		}
		if errors.Is(opErr, ErrTransient) {
			return opErr
		}
		return backoff.Permanent(opErr)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))

	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) {
		return errs.NewUnavailableError(operation, err)
	}
	return err
}
