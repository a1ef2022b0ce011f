package ratelimit

import (
	"sync"
	"time"

	"parkshare/internal/pkg/clock"

	"golang.org/x/time/rate"
)

// Limiter throttles credential-sensitive operations per opaque identifier
// (typically the submitted email). It deliberately knows nothing about
// tenants or whether the identifier maps to a real account, so its answers
// cannot be used for enumeration.
//
// Each identifier gets a token bucket holding maxAttempts tokens that refills
// over the course of one window, which approximates "maxAttempts per window"
// while tolerating bursts up to the full budget.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxAttempts int
	window      time.Duration
	clock       clock.Clock
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Result reports a single admission decision. RetryAfter is positive only
// when the attempt was rejected.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

func NewLimiter(maxAttempts int, window time.Duration, clk clock.Clock) *Limiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Limiter{
		entries:     make(map[string]*entry),
		maxAttempts: maxAttempts,
		window:      window,
		clock:       clk,
	}
}

// Allow consumes one attempt for the identifier and reports whether it is
// admitted. A rejected attempt does not consume budget.
func (l *Limiter) Allow(identifier string) Result {
	now := l.clock.Now()

	l.mu.Lock()
	e, ok := l.entries[identifier]
	if !ok {
		e = &entry{
			limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.maxAttempts)), l.maxAttempts),
		}
		l.entries[identifier] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return Result{Allowed: false, RetryAfter: l.window}
	}

	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: delay}
	}

	return Result{Allowed: true}
}

// Sweep drops identifiers idle for at least one full window. Call it
// periodically; entries for active identifiers are never removed, so a
// sweep cannot reset an in-progress penalty.
func (l *Limiter) Sweep() {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, id)
		}
	}
}

// SweepLoop runs Sweep on the given interval until stop is closed.
func (l *Limiter) SweepLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}

// Size returns the number of tracked identifiers.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
