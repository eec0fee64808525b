package retry

import (
	"context"
	"time"
)

// Do executes fn until it succeeds, returns a non-transient error, or the
// attempt budget is exhausted. Sleeps between attempts select on ctx.Done,
// so a caller-side cancellation unwinds the loop promptly instead of
// waiting out the schedule. On exhaustion the last error is returned.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt.
		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(cfg.Delay(attempt)):
			}
		}
	}

	return zero, lastErr
}
