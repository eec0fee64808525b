// Package retry provides cancellable retry loops for transient errors,
// with exponential-backoff and fixed-interval schedules. The fixed
// schedule drives the graph-executor job poller.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry schedule parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts (the initial request
	// counts as attempt 1).
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier. 1.0 yields a fixed
	// interval.
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd. Delay is
	// multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns the schedule used for one-shot HTTP dispatch:
// 3 attempts, 1s initial delay, 2x backoff capped at 30s, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// FixedInterval returns a constant-interval schedule, used by the job
// poller: attempts polls, interval apart, no jitter.
func FixedInterval(interval time.Duration, attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: interval,
		MaxDelay:     interval,
		Multiplier:   1.0,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		delay *= 1 + c.Jitter*(2*rand.Float64()-1)
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
