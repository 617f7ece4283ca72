package client

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds the exponential backoff retry applied to transport
// errors: protocol errors are never retried (the request itself is bad),
// only ErrTransport.
type RetryPolicy struct {
	MaxTries        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy matches §4.4/§7: bounded retries on transport errors.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 5, InitialInterval: 100 * time.Millisecond, MaxInterval: 5 * time.Second}
}

// withRetry runs op, retrying with exponential backoff only while op's
// error wraps ErrTransport, up to policy's bound, then surfaces
// ErrBackendTimeout.
func withRetry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval

	result, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && errors.Is(err, ErrTransport) {
			return v, err
		}
		if err != nil {
			return v, backoff.Permanent(err)
		}
		return v, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(policy.MaxTries)))

	if err != nil {
		var zero T
		if errors.Is(err, ErrTransport) {
			return zero, errBackendTimeoutWrap(err)
		}
		return zero, err
	}
	return result, nil
}

func errBackendTimeoutWrap(err error) error {
	return &timeoutError{cause: err}
}

type timeoutError struct{ cause error }

func (e *timeoutError) Error() string { return ErrBackendTimeout.Error() + ": " + e.cause.Error() }
func (e *timeoutError) Unwrap() []error { return []error{ErrBackendTimeout, e.cause} }
