package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/betahouse/listings/internal/domain"
)

// Credential limits.
const (
	MinNameLength     = 2
	MinPasswordLength = 8
)

// Role is the account privilege level.
type Role string

// Roles.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// User is an account (immutable value object).
type User struct {
	id           string
	name         string
	email        string
	passwordHash string
	role         Role
	avatarURL    string
	createdAt    time.Time
	updatedAt    time.Time
}

// Registration is a validated signup request.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// NewRegistration validates signup input. Email is lowercased.
func NewRegistration(name, email, password string) (Registration, error) {
	var errs []domain.FieldError
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "name must be at least 2 characters"})
	}
	email, ok := NormalizeEmail(email)
	if !ok {
		errs = append(errs, domain.FieldError{Field: "email", Message: "valid email is required"})
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, domain.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if err := domain.NewValidationError(errs); err != nil {
		return Registration{}, err
	}
	return Registration{Name: name, Email: email, Password: password}, nil
}

// NormalizeEmail trims and lowercases a bare address. Display names are rejected.
func NormalizeEmail(raw string) (string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || addr.Name != "" {
		return "", false
	}
	return raw, true
}

// New creates a User from a registration and its password hash.
func New(reg Registration, passwordHash string, now time.Time) User {
	return User{
		name:         reg.Name,
		email:        reg.Email,
		passwordHash: passwordHash,
		role:         RoleUser,
		createdAt:    now,
		updatedAt:    now,
	}
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(id, name, email, passwordHash string, role Role, avatarURL string, createdAt, updatedAt time.Time) User {
	return User{
		id: id, name: name, email: email, passwordHash: passwordHash,
		role: role, avatarURL: avatarURL, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// WithID returns a copy carrying the storage-assigned id.
func (u User) WithID(id string) User {
	u.id = id
	return u
}

func (u User) ID() string { return u.id }
func (u User) Name() string { return u.name }
func (u User) Email() string { return u.email }
func (u User) PasswordHash() string { return u.passwordHash }
func (u User) Role() Role { return u.role }
func (u User) AvatarURL() string { return u.avatarURL }
func (u User) CreatedAt() time.Time { return u.createdAt }
func (u User) UpdatedAt() time.Time { return u.updatedAt }

// Profile is a partial self-service update. The password is not part of it.
type Profile struct {
	name      *string
	avatarURL *string
}

// NewProfile validates supplied profile fields.
func NewProfile(name, avatarURL *string) (Profile, error) {
	var p Profile
	if name != nil {
		n := strings.TrimSpace(*name)
		if len([]rune(n)) < MinNameLength {
			return Profile{}, domain.NewValidationError([]domain.FieldError{
				{Field: "name", Message: "name must be at least 2 characters"},
			})
		}
		p.name = &n
	}
	if avatarURL != nil {
		a := strings.TrimSpace(*avatarURL)
		p.avatarURL = &a
	}
	return p, nil
}

// Name returns the new name, or nil if unchanged.
func (p Profile) Name() *string { return p.name }

// AvatarURL returns the new avatar, or nil if unchanged.
func (p Profile) AvatarURL() *string { return p.avatarURL }

// IsEmpty reports whether nothing changes.
func (p Profile) IsEmpty() bool { return p.name == nil && p.avatarURL == nil }
