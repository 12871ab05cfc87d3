package user

import (
	"context"
	"fmt"
	"time"

	domuser "github.com/betahouse/listings/internal/domain/user"
)

// Service handles self-service profile access.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a profile service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, id string) (domuser.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateMe changes name and avatar. An empty update returns the current account.
func (s *Service) UpdateMe(ctx context.Context, id string, name, avatarURL *string) (domuser.User, error) {
	p, err := domuser.NewProfile(name, avatarURL)
	if err != nil {
		return domuser.User{}, err
	}
	if p.IsEmpty() {
		return s.Me(ctx, id)
	}
	u, err := s.repo.UpdateProfile(ctx, id, p, s.now().UTC())
	if err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
