package user

import (
	"context"
	"time"

	domuser "github.com/betahouse/listings/internal/domain/user"
)

// Repository defines the storage contract for profile reads and writes.
type Repository interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	UpdateProfile(ctx context.Context, id string, p domuser.Profile, now time.Time) (domuser.User, error)
}
