// Package ratelimit decides whether a client may issue another request.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects requests per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
