// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package errutil provides helpers for working with oops errors: structured
// logging, the code-to-HTTP-status mapping of the public error contract, and
// test assertions.
package errutil

import (
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Error codes surfaced by the auth and content services. These form the public
// error contract: every deliberate failure carries exactly one of them.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserExists         = "USER_EXISTS"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "AUTH_INTERNAL"
)

// statusByCode maps contract codes to HTTP status codes.
var statusByCode = map[string]int{
	CodeValidation:         http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeUserExists:         http.StatusConflict,
	CodeNotFound:           http.StatusNotFound,
	CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for an error. Errors without a known
// contract code map to 500: an unrecognized failure is by definition internal.
func HTTPStatus(err error) int {
	if code, ok := rawCode(err); ok {
		if status, found := statusByCode[code]; found {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Code extracts the contract code from an error, or CodeInternal if the error
// carries none.
func Code(err error) string {
	if code, ok := rawCode(err); ok {
		return code
	}
	return CodeInternal
}

// UserMessage returns the message safe to expose to a client. Internal
// failures get a generic message; the concrete cause stays server-side.
func UserMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "something went wrong, please try again"
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return err.Error()
}

func rawCode(err error) (string, bool) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "", false
	}
	code, ok := oopsErr.Code().(string)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}
