// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// invalidCredentialsMessage is shared by the unknown-email and wrong-password
// paths so a caller cannot tell which field was wrong.
const invalidCredentialsMessage = "invalid email or password"

// dummyPasswordHash is verified against when the email lookup misses, so the
// miss path costs the same as a real verification. It is a well-formed bcrypt
// hash, not a credential.
//
//nolint:gosec // G101: fake hash for timing consistency, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service provides sign-up, sign-in, refresh, and session resolution.
type Service struct {
	identities IdentityRepository
	tokens     *TokenService
	hasher     PasswordHasher
	logger     *slog.Logger
}

// NewService creates a Service with the default logger.
func NewService(identities IdentityRepository, tokens *TokenService, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(identities, tokens, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(identities IdentityRepository, tokens *TokenService, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if identities == nil {
		return nil, oops.Errorf("identity repository is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		identities: identities,
		tokens:     tokens,
		hasher:     hasher,
		logger:     logger,
	}, nil
}

// SignUp registers a new identity and mints its first token pair. The caller
// is responsible for writing the pair to session storage (with rememberMe
// false for new registrations).
func (s *Service) SignUp(ctx context.Context, email, username, password string) (*PublicIdentity, TokenPair, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, TokenPair{}, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, TokenPair{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, TokenPair{}, err
	}

	// Uniqueness across both fields. The database unique indexes are the
	// backstop for the check-then-create race.
	existing, err := s.identities.GetByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, TokenPair{}, s.internal("sign up: uniqueness check failed", err)
	}
	if existing != nil {
		return nil, TokenPair{}, oops.Code(errutil.CodeUserExists).
			Errorf("user with this email or username already exists")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, TokenPair{}, s.internal("sign up: password hashing failed", err)
	}

	identity, err := NewIdentity(email, username, hash)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if err := s.identities.Create(ctx, identity); err != nil {
		if errutil.Code(err) == errutil.CodeUserExists {
			return nil, TokenPair{}, err
		}
		return nil, TokenPair{}, s.internal("sign up: create identity failed", err)
	}

	pair, err := s.tokens.Issue(identity.ID)
	if err != nil {
		return nil, TokenPair{}, s.internal("sign up: token issuance failed", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", identity.ID.String())
	return identity.Public(), pair, nil
}

// SignIn authenticates a credential and mints a token pair. An unknown email
// and a wrong password produce the identical error, and the lookup-miss path
// still performs a hash verification so its timing matches.
func (s *Service) SignIn(ctx context.Context, email, password string) (*PublicIdentity, TokenPair, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, TokenPair{}, err
	}

	identity, lookupErr := s.identities.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	identityExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, TokenPair{}, s.internal("sign in: identity lookup failed", lookupErr)
		}
	} else {
		targetHash = identity.PasswordHash
		identityExists = true
	}

	valid := s.hasher.Verify(password, targetHash)
	if !identityExists || !valid {
		return nil, TokenPair{}, oops.Code(errutil.CodeInvalidCredentials).
			Errorf("%s", invalidCredentialsMessage)
	}

	pair, err := s.tokens.Issue(identity.ID)
	if err != nil {
		return nil, TokenPair{}, s.internal("sign in: token issuance failed", err)
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", identity.ID.String())
	return identity.Public(), pair, nil
}

// Refresh verifies a refresh token and mints a brand-new pair for the same
// subject. The old pair is not revoked; it stays valid until its own expiry,
// so concurrent refreshes for one subject all succeed independently.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, oops.Code(errutil.CodeUnauthorized).
			Errorf("refresh token not found")
	}

	claims, err := s.tokens.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, oops.Code(errutil.CodeUnauthorized).
			Errorf("invalid refresh token")
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return TokenPair{}, oops.Code(errutil.CodeUnauthorized).
			Errorf("invalid refresh token")
	}

	pair, err := s.tokens.Issue(subjectID)
	if err != nil {
		return TokenPair{}, s.internal("refresh: token issuance failed", err)
	}

	s.logger.InfoContext(ctx, "session refreshed", "user_id", subjectID.String())
	return pair, nil
}

// ResolveSession resolves an access token to an authenticated identity, or
// nil for anonymous. A missing, malformed, or expired token and a subject
// that no longer exists all resolve to anonymous; only infrastructure
// failures return an error. Resolution never re-issues tokens and never
// consults the refresh token.
func (s *Service) ResolveSession(ctx context.Context, accessToken string) (*PublicIdentity, error) {
	if accessToken == "" {
		return nil, nil
	}

	claims, err := s.tokens.Verify(accessToken, TokenKindAccess)
	if err != nil {
		return nil, nil
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, nil
	}

	identity, err := s.identities.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, s.internal("resolve session: identity lookup failed", err)
	}

	return identity.Public(), nil
}

// internal logs the concrete cause server-side and returns the generic
// infrastructure error; raw collaborator errors never reach the caller.
func (s *Service) internal(msg string, err error) error {
	errutil.LogError(s.logger, msg, err)
	return oops.Code(errutil.CodeInternal).
		With("cause", msg).
		Wrap(err)
}
