package search

import (
	"context"
	"fmt"
	"time"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/page"
	"github.com/betahouse/listings/internal/domain/search/request"
	"github.com/betahouse/listings/internal/domain/search/result"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

// Service executes compiled listing searches against storage.
type Service struct {
	repo     Repository
	cfg      domain.ListingConfig
	observer Observer
	now      func() time.Time
}

// New creates a search service.
func New(repo Repository, cfg domain.ListingConfig) *Service {
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// WithObserver attaches a per-search observer.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// Search compiles raw params and executes them.
func (s *Service) Search(ctx context.Context, params request.Params) (result.Page, error) {
	pred := request.Compile(params)
	key := sortkey.Parse(params.Sort, sortkey.Key(s.cfg.DefaultSort))
	number, size := params.Pagination()
	return s.Execute(ctx, pred, key, number, size)
}

// Execute counts the matches, then fetches one page in the requested order.
// Pages past the last match are answered from the count alone.
// A nil pageSize takes the configured default. Storage errors are returned as is;
// nothing is retried, and count/fetch drift under concurrent writes is accepted.
func (s *Service) Execute(
	ctx context.Context, pred filter.Predicate, key sortkey.Key,
	pageNum int, pageSize *int,
) (result.Page, error) {
	w := page.Normalize(pageNum, pageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	start := s.now()

	total, err := s.repo.Count(ctx, pred)
	if err != nil {
		s.observe(pred, key, 0, start, err)
		return result.Page{}, fmt.Errorf("count properties: %w", err)
	}

	var items []property.Property
	if w.Skip() < total {
		items, err = s.repo.Find(ctx, pred, key, w.Skip(), w.Limit())
		if err != nil {
			s.observe(pred, key, total, start, err)
			return result.Page{}, fmt.Errorf("find properties: %w", err)
		}
	}

	s.observe(pred, key, total, start, nil)
	return result.New(items, result.Meta{
		Total:    total,
		Page:     w.Number(),
		PageSize: w.Size(),
		Pages:    page.Count(total, w.Size()),
	}), nil
}

func (s *Service) observe(pred filter.Predicate, key sortkey.Key, total int64, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveSearch(pred, key, total, s.now().Sub(start), err)
	}
}
