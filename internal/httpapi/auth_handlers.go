// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type sessionResponse struct {
	User *auth.PublicIdentity `json:"user"`
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return oops.Code(errutil.CodeValidation).
			Wrapf(err, "invalid request body")
	}
	return nil
}

// handleSignUp creates an account and establishes a session. The refresh
// cookie is session-scoped; persistence is opted into at sign-in.
func (api *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		api.recordAuth("signup", "rejected")
		writeError(w, err)
		return
	}

	identity, pair, err := api.auth.SignUp(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		api.recordAuth("signup", outcomeFor(err))
		writeError(w, err)
		return
	}

	api.cookies.Write(w, pair, api.accessTTL, api.refreshTTL, false)
	api.recordAuth("signup", "ok")
	writeJSON(w, http.StatusCreated, sessionResponse{User: identity})
}

// handleSignIn verifies credentials and establishes a session. The
// rememberMe flag controls whether the refresh cookie survives the
// browser session.
func (api *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		api.recordAuth("signin", "rejected")
		writeError(w, err)
		return
	}

	identity, pair, err := api.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		api.recordAuth("signin", outcomeFor(err))
		writeError(w, err)
		return
	}

	api.cookies.Write(w, pair, api.accessTTL, api.refreshTTL, req.RememberMe)
	api.recordAuth("signin", "ok")
	writeJSON(w, http.StatusOK, sessionResponse{User: identity})
}

// handleRefresh exchanges the refresh-token cookie for a fresh token
// pair. The new refresh cookie is persistent; a client that chose a
// session-scoped cookie loses it when the browser closes and simply
// signs in again.
func (api *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	_, refreshToken := api.cookies.Read(r)

	pair, err := api.auth.Refresh(r.Context(), refreshToken)
	if err != nil {
		api.recordAuth("refresh", outcomeFor(err))
		writeError(w, err)
		return
	}

	api.cookies.Write(w, pair, api.accessTTL, api.refreshTTL, true)
	api.recordAuth("refresh", "ok")
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSignOut clears the session cookies. Previously issued tokens
// remain cryptographically valid until they expire; signing out only
// removes them from the browser.
func (api *API) handleSignOut(w http.ResponseWriter, _ *http.Request) {
	api.cookies.Clear(w)
	writeJSON(w, http.StatusNoContent, nil)
}

// handleMe returns the authenticated identity.
func (api *API) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, oops.Code(errutil.CodeUnauthorized).Errorf("authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: identity})
}

func (api *API) recordAuth(operation, outcome string) {
	if api.metrics == nil {
		return
	}
	api.metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// outcomeFor buckets an error for metrics: client rejections versus
// infrastructure errors.
func outcomeFor(err error) string {
	if errutil.HTTPStatus(err) >= http.StatusInternalServerError {
		return "error"
	}
	return "rejected"
}
