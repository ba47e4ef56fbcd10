// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"net/http"
	"time"
)

// Cookie names for the two session slots.
const (
	AccessTokenCookie  = "inkpost_access_token"
	RefreshTokenCookie = "inkpost_refresh_token"
)

// CookieStore reads and writes the token pair to the client's cookie jar.
// Entries are script-inaccessible, same-site-restricted, and scoped to the
// whole site path. Storage lifetime and token validity are independent: a
// cookie that outlives its token is simply rejected on verify, and a token
// that outlives its cookie is simply never presented again.
type CookieStore struct {
	secure bool
}

// NewCookieStore creates a CookieStore. secure controls the Secure attribute;
// it is disabled only for non-TLS development environments.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

// Write stores both tokens. The access entry expires with the access token
// lifetime. The refresh entry persists for the refresh token lifetime when
// rememberMe is set, and is session-scoped otherwise.
func (c *CookieStore) Write(w http.ResponseWriter, pair TokenPair, accessTTL, refreshTTL time.Duration, rememberMe bool) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, pair.AccessToken, int(accessTTL.Seconds())))

	refreshMaxAge := 0 // session-scoped
	if rememberMe {
		refreshMaxAge = int(refreshTTL.Seconds())
	}
	http.SetCookie(w, c.cookie(RefreshTokenCookie, pair.RefreshToken, refreshMaxAge))
}

// Read returns whatever tokens the client presented. Absence is an empty
// string, not an error.
func (c *CookieStore) Read(r *http.Request) (accessToken, refreshToken string) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		accessToken = cookie.Value
	}
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	return accessToken, refreshToken
}

// Clear expires both entries. There is no server state to touch, and tokens
// already copied elsewhere remain valid until their encoded expiry.
func (c *CookieStore) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := c.cookie(name, "", -1)
		http.SetCookie(w, cookie)
	}
}

func (c *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
