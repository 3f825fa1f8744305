package util

import (
	"context"
	"errors"
)

// RetryWithContext calls fn up to maxTries times until it returns a nil error,
// or until ctx is done. If maxTries <= 0, it defaults to 1.
// Returns ctx.Err() if the context is canceled, otherwise returns the last error.
func RetryWithContext[T any](ctx context.Context, maxTries int, fn func(context.Context) (T, error)) (T, error) {
	return RetryIfWithContext(ctx, maxTries, nil, fn)
}

// RetryIfWithContext is RetryWithContext with a predicate deciding whether an
// error is worth another attempt. A nil predicate retries every error except
// context cancellation.
func RetryIfWithContext[T any](
	ctx context.Context,
	maxTries int,
	shouldRetry func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err
		if shouldRetry != nil && !shouldRetry(err) {
			break
		}
	}
	return zero, lastErr
}
