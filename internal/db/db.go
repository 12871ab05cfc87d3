package db

import (
	"context"
	"time"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter provides the atomic counter primitives used for fixed-window rate limiting.
type Counter interface {
	Pinger
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Close()
}
