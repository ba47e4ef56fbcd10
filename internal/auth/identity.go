// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// Role determines what an identity may do beyond its own resources.
type Role string

// Known roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Input validation constraints.
const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// emailRegex matches addresses of the form local@domain.tld. It is a shape
// check, not an RFC 5322 validator; deliverability is not this package's
// concern.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity represents a user account.
type Identity struct {
	ID           ulid.ULID
	Email        string
	Username     string
	Role         Role
	PasswordHash string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the public profile attached to an identity. Empty at sign-up.
type Profile struct {
	AvatarURL string
	Bio       string
}

// PublicIdentity is the projection of an Identity safe to hand to callers.
// It never carries the password hash.
type PublicIdentity struct {
	ID        ulid.ULID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

// Public returns the caller-safe projection of the identity.
func (i *Identity) Public() *PublicIdentity {
	return &PublicIdentity{
		ID:        i.ID,
		Email:     i.Email,
		Username:  i.Username,
		Role:      i.Role,
		AvatarURL: i.Profile.AvatarURL,
	}
}

// IsAdmin returns true if the identity carries the admin role.
func (i *PublicIdentity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// NewIdentity creates a validated Identity with the default role and an empty
// profile. The password hash must already be computed.
func NewIdentity(email, username, passwordHash string) (*Identity, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code(errutil.CodeInternal).Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &Identity{
		ID:           ulid.Make(),
		Email:        email,
		Username:     username,
		Role:         RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateEmail checks the shape of an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code(errutil.CodeValidation).
			With("field", "email").
			Errorf("invalid email address")
	}
	return nil
}

// ValidateUsername checks the username length constraint.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "username").
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	return nil
}

// ValidatePassword checks the password length constraint. The plaintext is
// never stored or logged; it exists only for the duration of this call and
// the subsequent hash.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "password").
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// IdentityRepository manages identity persistence.
type IdentityRepository interface {
	// Create stores a new identity. Returns an error carrying the
	// USER_EXISTS code when the email or username is already taken.
	Create(ctx context.Context, identity *Identity) error

	// GetByID retrieves an identity by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Identity, error)

	// GetByEmail retrieves an identity by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*Identity, error)

	// GetByEmailOrUsername retrieves an identity matching either field
	// (case-insensitive). Used for the sign-up uniqueness check.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*Identity, error)
}
