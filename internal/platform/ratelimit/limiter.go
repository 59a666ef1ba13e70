package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool

	// Limit is the configured number of requests per window.
	Limit int

	// Remaining is how many more requests the key may make in the current window.
	Remaining int

	// RetryAfter is how long a denied caller should wait. Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow records one request for key and reports whether it is within limits.
	// A non-nil error means the decision could not be made.
	Allow(ctx context.Context, key string) (Decision, error)

	// Close releases resources held by the limiter.
	Close() error
}

// Window is the period every limit is expressed over.
const Window = time.Minute
