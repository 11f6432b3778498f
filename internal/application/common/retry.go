package common

import (
	"context"
	"errors"
	"time"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// Retry policy for transient storage failures (optimistic-version misses,
// connection blips). Exponential backoff, bounded attempts; exhaustion
// surfaces as a StateConflictError.

const (
	retryMaxAttempts = 4
	retryBaseDelay   = 50 * time.Millisecond
)

// WithStorageRetry runs fn, retrying on TransientStorageError with
// exponential backoff up to the attempt bound.
func WithStorageRetry(ctx context.Context, clock shared.Clock, fn func() error) error {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 0; attempt < retryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		var transient *shared.TransientStorageError
		if !errors.As(err, &transient) {
			return err
		}
		lastErr = err
		clock.Sleep(delay)
		delay *= 2
	}
	return shared.NewStateConflictError("storage conflict persisted after retries: " + lastErr.Error())
}
