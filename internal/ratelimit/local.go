package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Local is an in-process token bucket per key.
type Local struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	perMin   int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// sweepThreshold bounds the map before idle entries are evicted.
const sweepThreshold = 10_000

// NewLocal allows requestsPerMinute sustained with the given burst.
func NewLocal(requestsPerMinute, burst int) *Local {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = requestsPerMinute
	}
	return &Local{
		limiters: make(map[string]*entry),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		perMin:   requestsPerMinute,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one token for key.
func (l *Local) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	lim := l.get(key, now)

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, Limit: l.perMin, RetryAfter: delay}, nil
	}
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: l.perMin, Remaining: remaining}, nil
}

func (l *Local) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= sweepThreshold {
			l.sweep(now)
		}
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *Local) sweep(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, k)
		}
	}
}
