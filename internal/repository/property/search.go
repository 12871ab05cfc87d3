package property

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betahouse/listings/internal/db"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

// Count returns the number of listings matching pred.
func (r *Repo) Count(ctx context.Context, pred filter.Predicate) (int64, error) {
	q, err := buildFilter(pred)
	if err != nil {
		return 0, fmt.Errorf("build filter: %w", err)
	}
	n, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, &db.Error{Op: db.OpCountDocuments, Err: err}
	}
	return n, nil
}

// Find returns one page of listings matching pred, ordered by key.
func (r *Repo) Find(
	ctx context.Context, pred filter.Predicate, key sortkey.Key, skip, limit int64,
) ([]domprop.Property, error) {
	q, err := buildFilter(pred)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	opts := options.Find().SetSort(buildSort(key)).SetSkip(skip).SetLimit(limit)
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	// All closes the cursor.
	var docs []propertyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]domprop.Property, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
