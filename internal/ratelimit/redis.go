package ratelimit

import (
	"context"
	"fmt"
	"time"

	rlstore "github.com/betahouse/listings/internal/repository/ratelimit"
)

// counter is the consumer interface for shared window counters (ISP).
type counter interface {
	Hit(ctx context.Context, subject string, window time.Duration) (rlstore.Window, error)
}

// Shared is a fixed-window limiter whose counters live in Redis,
// so every instance behind a load balancer sees the same budget.
type Shared struct {
	counter counter
	limit   int
	window  time.Duration
}

// NewShared allows requestsPerMinute per key per one-minute window.
func NewShared(c counter, requestsPerMinute int) *Shared {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &Shared{counter: c, limit: requestsPerMinute, window: time.Minute}
}

// Allow counts one request for key.
func (s *Shared) Allow(ctx context.Context, key string) (Decision, error) {
	w, err := s.counter.Hit(ctx, key, s.window)
	if err != nil {
		return Decision{}, fmt.Errorf("count request: %w", err)
	}
	if w.Count > int64(s.limit) {
		return Decision{Allowed: false, Limit: s.limit, RetryAfter: w.ResetIn}, nil
	}
	return Decision{Allowed: true, Limit: s.limit, Remaining: s.limit - int(w.Count)}, nil
}
