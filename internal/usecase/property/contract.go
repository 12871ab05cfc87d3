package property

import (
	"context"
	"time"

	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/property/patch"
)

// Repository defines the storage contract for listing records.
type Repository interface {
	Create(ctx context.Context, p domprop.Property) (domprop.Property, error)
	Get(ctx context.Context, id string) (domprop.Property, error)
	Update(ctx context.Context, id string, p patch.Patch, now time.Time) (domprop.Property, error)
	Delete(ctx context.Context, id string) error
}
