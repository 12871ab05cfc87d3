package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/betahouse/listings/internal/domain"
	domuser "github.com/betahouse/listings/internal/domain/user"
)

// Service handles account registration, sign-in and token verification.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

// New creates an auth service.
func New(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, now: time.Now}
}

// Signup registers a new account and returns it with a fresh token.
func (s *Service) Signup(ctx context.Context, name, email, password string) (domuser.User, string, error) {
	reg, err := domuser.NewRegistration(name, email, password)
	if err != nil {
		return domuser.User{}, "", err
	}

	_, err = s.repo.GetByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return domuser.User{}, "", fmt.Errorf("email already in use: %w", domain.ErrAlreadyExists)
	case !errors.Is(err, domain.ErrUserNotFound):
		return domuser.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return domuser.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, domuser.New(reg, hash, s.now().UTC()))
	if err != nil {
		return domuser.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.ID())
	if err != nil {
		return domuser.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Signin checks credentials. Unknown email and wrong password fail identically.
func (s *Service) Signin(ctx context.Context, email, password string) (domuser.User, string, error) {
	addr, ok := domuser.NormalizeEmail(email)
	if !ok || password == "" {
		return domuser.User{}, "", domain.ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, addr)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domuser.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domuser.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash(), password); err != nil {
		return domuser.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID())
	if err != nil {
		return domuser.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Authenticate resolves a bearer token to the caller's user id.
func (s *Service) Authenticate(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}
	sub, err := s.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return sub, nil
}
