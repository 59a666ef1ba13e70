package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const localSweepInterval = 5 * time.Minute

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per key in process memory. Buckets hold
// perMinute tokens and refill continuously over Window.
type LocalLimiter struct {
	perMinute int
	now       func() time.Time

	mu        sync.Mutex
	entries   map[string]*localEntry
	lastSweep time.Time
}

// Ensure LocalLimiter implements Limiter
var _ Limiter = (*LocalLimiter)(nil)

// NewLocalLimiter creates an in-process limiter allowing perMinute requests per key.
// A non-positive perMinute allows everything.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	return newLocalLimiter(perMinute, time.Now)
}

func newLocalLimiter(perMinute int, now func() time.Time) *LocalLimiter {
	return &LocalLimiter{
		perMinute: perMinute,
		now:       now,
		entries:   make(map[string]*localEntry),
		lastSweep: now(),
	}
}

// Allow implements Limiter.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if l.perMinute <= 0 {
		return Decision{Allowed: true}, nil
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{
			limiter: rate.NewLimiter(rate.Every(Window/time.Duration(l.perMinute)), l.perMinute),
		}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	decision := Decision{Limit: l.perMinute}
	if entry.limiter.AllowN(now, 1) {
		decision.Allowed = true
		decision.Remaining = int(entry.limiter.TokensAt(now))
		return decision, nil
	}

	r := entry.limiter.ReserveN(now, 1)
	decision.RetryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return decision, nil
}

// sweep drops buckets that have been idle long enough to be full again.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < localSweepInterval {
		return
	}
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > Window {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

// Close implements Limiter.
func (l *LocalLimiter) Close() error {
	return nil
}
