// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// Default token lifetimes, overridable through configuration.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenKind distinguishes the role a token is allowed to play. A token
// presented in the wrong role is rejected even when its signature and expiry
// check out.
type TokenKind string

// Token kinds.
const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the payload encoded in every Inkpost token: the subject identity,
// issue and expiry instants, and the token kind. Nothing more is encoded;
// there is no revocation identifier because there is no revocation.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies signed tokens. The signing secret is
// injected once at construction and never mutated afterwards.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService. The secret is required; zero TTLs
// fall back to the defaults.
func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, oops.Code(errutil.CodeInternal).Errorf("signing secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &TokenService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration { return s.accessTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.refreshTTL }

// Issue mints a signed access/refresh pair for the subject. Both tokens carry
// subject, issuedAt, and expiresAt; each carries its own kind.
func (s *TokenService) Issue(subjectID ulid.ULID) (TokenPair, error) {
	now := time.Now()

	accessToken, err := s.sign(subjectID, TokenKindAccess, now, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.sign(subjectID, TokenKindRefresh, now, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *TokenService) sign(subjectID ulid.ULID, kind TokenKind, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code(errutil.CodeInternal).
			With("operation", "sign token").
			With("kind", string(kind)).
			Wrap(err)
	}
	return signed, nil
}

// Verify checks signature integrity, expiry, subject presence, and kind.
// Any failure yields an error carrying the UNAUTHORIZED code; callers that
// treat an invalid token as anonymous simply discard it. Verification is a
// pure function of the token and the secret, safe for concurrent use.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, oops.Code(errutil.CodeUnauthorized).
			With("operation", "parse token").
			Wrap(err)
	}
	if !token.Valid {
		return nil, oops.Code(errutil.CodeUnauthorized).Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, oops.Code(errutil.CodeUnauthorized).Errorf("token has no subject")
	}
	if claims.Kind != kind {
		return nil, oops.Code(errutil.CodeUnauthorized).
			With("expected", string(kind)).
			With("got", string(claims.Kind)).
			Errorf("token presented in the wrong role")
	}

	return claims, nil
}

// SubjectID parses the subject claim as a ULID.
func (c *Claims) SubjectID() (ulid.ULID, error) {
	id, err := ulid.Parse(c.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code(errutil.CodeUnauthorized).
			With("operation", "parse subject").
			Wrap(err)
	}
	return id, nil
}
