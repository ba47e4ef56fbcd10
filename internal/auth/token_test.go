// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

var testSecret = []byte("test-signing-secret-keep-it-safe")

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(testSecret, accessTTL, refreshTTL)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		svc, err := auth.NewTokenService(nil, 0, 0)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("zero lifetimes fall back to defaults", func(t *testing.T) {
		svc := newTestTokenService(t, 0, 0)
		assert.Equal(t, auth.DefaultAccessTokenTTL, svc.AccessTokenTTL())
		assert.Equal(t, auth.DefaultRefreshTokenTTL, svc.RefreshTokenTTL())
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t, 0, 0)
	subjectID := ulid.Make()

	pair, err := svc.Issue(subjectID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("access token verifies with matching subject", func(t *testing.T) {
		claims, err := svc.Verify(pair.AccessToken, auth.TokenKindAccess)
		require.NoError(t, err)
		assert.Equal(t, subjectID.String(), claims.Subject)

		got, err := claims.SubjectID()
		require.NoError(t, err)
		assert.Equal(t, subjectID, got)
	})

	t.Run("refresh token verifies as refresh", func(t *testing.T) {
		claims, err := svc.Verify(pair.RefreshToken, auth.TokenKindRefresh)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenKindRefresh, claims.Kind)
	})

	t.Run("token presented in the wrong role is rejected", func(t *testing.T) {
		_, err := svc.Verify(pair.RefreshToken, auth.TokenKindAccess)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, errutil.CodeUnauthorized)

		_, err = svc.Verify(pair.AccessToken, auth.TokenKindRefresh)
		require.Error(t, err)
	})
}

func TestTokenService_Verify_Invalid(t *testing.T) {
	svc := newTestTokenService(t, 0, 0)
	subjectID := ulid.Make()

	t.Run("malformed encoding is invalid", func(t *testing.T) {
		_, err := svc.Verify("not.a.token", auth.TokenKindAccess)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, errutil.CodeUnauthorized)
	})

	t.Run("tampered signature is invalid", func(t *testing.T) {
		pair, err := svc.Issue(subjectID)
		require.NoError(t, err)

		parts := strings.Split(pair.AccessToken, ".")
		require.Len(t, parts, 3)

		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = svc.Verify(tampered, auth.TokenKindAccess)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, errutil.CodeUnauthorized)
	})

	t.Run("token signed with a different secret is invalid", func(t *testing.T) {
		other, err := auth.NewTokenService([]byte("another-secret-entirely"), 0, 0)
		require.NoError(t, err)

		pair, err := other.Issue(subjectID)
		require.NoError(t, err)

		_, err = svc.Verify(pair.AccessToken, auth.TokenKindAccess)
		require.Error(t, err)
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		_, err := svc.Verify("", auth.TokenKindAccess)
		require.Error(t, err)
	})
}

func TestTokenService_Expiry(t *testing.T) {
	// Issue with a lifetime of one millisecond and wait it out.
	svc := newTestTokenService(t, time.Millisecond, time.Millisecond)
	pair, err := svc.Issue(ulid.Make())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.Verify(pair.AccessToken, auth.TokenKindAccess)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, errutil.CodeUnauthorized)

	_, err = svc.Verify(pair.RefreshToken, auth.TokenKindRefresh)
	require.Error(t, err)
}
