package search

import (
	"context"
	"time"

	"github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Count(ctx context.Context, pred filter.Predicate) (int64, error)
	Find(
		ctx context.Context, pred filter.Predicate, key sortkey.Key,
		skip, limit int64,
	) ([]property.Property, error)
}

// Observer receives one event per executed search.
type Observer interface {
	ObserveSearch(pred filter.Predicate, key sortkey.Key, total int64, took time.Duration, err error)
}
