package auth

import (
	"context"

	domuser "github.com/betahouse/listings/internal/domain/user"
)

// Repository defines the user storage needed for sign-up and sign-in.
type Repository interface {
	// Create fails with domain.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domuser.User) (domuser.User, error)
	// GetByEmail fails with domain.ErrUserNotFound when nothing matches.
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues and verifies bearer tokens whose subject is a user id.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}
