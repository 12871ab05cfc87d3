package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/betahouse/listings/internal/db"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Window is the state of one fixed window after a hit.
type Window struct {
	Count   int64
	ResetIn time.Duration
}

// Store keeps fixed-window request counters (INCRBY + EXPIRE NX).
type Store struct {
	store  store
	prefix string
	now    func() time.Time
}

// New creates a counter store. Keys are namespaced under prefix.
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix, now: time.Now}
}

// Hit counts one request for subject in the current window of the given length.
func (s *Store) Hit(ctx context.Context, subject string, window time.Duration) (Window, error) {
	if window <= 0 {
		return Window{}, fmt.Errorf("window must be positive, got %s", window)
	}
	start := s.now().Truncate(window)
	key := s.key(subject, start)

	n, err := s.store.IncrBy(ctx, key, 1)
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit INCRBY %s: %w", key, err)
	}

	// First hit in the window sets the expiry; NX keeps later hits from extending it.
	if err := s.store.Expire(ctx, key, window, true); err != nil {
		return Window{}, fmt.Errorf("ratelimit EXPIRE %s: %w", key, err)
	}

	reset := start.Add(window).Sub(s.now())
	if ttl, err := s.store.TTL(ctx, key); err == nil && ttl > 0 {
		reset = ttl
	} else if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		return Window{}, fmt.Errorf("ratelimit PTTL %s: %w", key, err)
	}

	return Window{Count: n, ResetIn: reset}, nil
}

func (s *Store) key(subject string, start time.Time) string {
	return s.prefix + ":" + subject + ":" + strconv.FormatInt(start.Unix(), 10)
}
