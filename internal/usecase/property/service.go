package property

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/property/patch"
	logpkg "github.com/betahouse/listings/internal/logger"
)

// Service handles listing CRUD and image attachment.
type Service struct {
	repo   Repository
	images domain.ImageStore
	cfg    domain.ListingConfig
	now    func() time.Time
}

// New creates a listing service. images may be nil; requests carrying files then fail.
func New(repo Repository, images domain.ImageStore, cfg domain.ListingConfig) *Service {
	return &Service{repo: repo, images: images, cfg: cfg, now: time.Now}
}

// Create validates in, stores attached images, then inserts the listing owned by owner.
// Uploaded URLs are appended to the images given in the payload.
// If the insert fails, the objects uploaded for this request are removed again.
func (s *Service) Create(
	ctx context.Context, in domprop.Input, owner string, files []domain.Upload,
) (domprop.Property, error) {
	p, err := domprop.New(in, owner, s.cfg, s.now().UTC())
	if err != nil {
		return domprop.Property{}, err
	}
	if err := domain.ValidateUploads(files); err != nil {
		return domprop.Property{}, err
	}

	var uploaded []string
	if len(files) > 0 {
		uploaded, err = s.store(ctx, files)
		if err != nil {
			return domprop.Property{}, err
		}
		p = p.WithImages(append(domprop.Compact(in.Images), uploaded...), s.cfg.PlaceholderImage)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.discard(ctx, uploaded)
		return domprop.Property{}, fmt.Errorf("create property: %w", err)
	}
	return created, nil
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, id string) (domprop.Property, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprop.Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// Update applies the supplied fields of in. Attached images replace the stored list.
// The listing must exist before any image is stored. Images are removed again if the write fails.
func (s *Service) Update(
	ctx context.Context, id string, in domprop.Input, files []domain.Upload,
) (domprop.Property, error) {
	pt, err := patch.New(in, s.cfg.PlaceholderImage)
	if err != nil {
		return domprop.Property{}, err
	}
	if err := domain.ValidateUploads(files); err != nil {
		return domprop.Property{}, err
	}

	var uploaded []string
	if len(files) > 0 {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return domprop.Property{}, fmt.Errorf("get property: %w", err)
		}
		uploaded, err = s.store(ctx, files)
		if err != nil {
			return domprop.Property{}, err
		}
		pt = pt.WithImages(uploaded, s.cfg.PlaceholderImage)
	}

	updated, err := s.repo.Update(ctx, id, pt, s.now().UTC())
	if err != nil {
		s.discard(ctx, uploaded)
		return domprop.Property{}, fmt.Errorf("update property: %w", err)
	}
	return updated, nil
}

// Delete removes a listing permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

// discard removes objects stored for a request that did not persist.
// Failures are logged; the caller's error takes precedence.
func (s *Service) discard(ctx context.Context, urls []string) {
	if len(urls) == 0 || s.images == nil {
		return
	}
	if err := s.images.Remove(context.WithoutCancel(ctx), urls); err != nil {
		logpkg.FromContext(ctx).Warn("orphaned images left in bucket",
			zap.Strings("urls", urls), zap.Error(err))
	}
}

func (s *Service) store(ctx context.Context, files []domain.Upload) ([]string, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image storage: %w", domain.ErrNotImplemented)
	}
	urls, err := s.images.Store(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("store images: %w", err)
	}
	return urls, nil
}
