// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/pkg/errutil"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", oops.Code(errutil.CodeValidation).Errorf("bad email"), http.StatusBadRequest},
		{"invalid credentials", oops.Code(errutil.CodeInvalidCredentials).Errorf("nope"), http.StatusUnauthorized},
		{"unauthorized", oops.Code(errutil.CodeUnauthorized).Errorf("nope"), http.StatusUnauthorized},
		{"forbidden", oops.Code(errutil.CodeForbidden).Errorf("nope"), http.StatusForbidden},
		{"user exists", oops.Code(errutil.CodeUserExists).Errorf("dup"), http.StatusConflict},
		{"not found", oops.Code(errutil.CodeNotFound).Errorf("gone"), http.StatusNotFound},
		{"internal", oops.Code(errutil.CodeInternal).Errorf("boom"), http.StatusInternalServerError},
		{"unknown code", oops.Code("SOMETHING_ELSE").Errorf("boom"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.HTTPStatus(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, errutil.CodeUserExists, errutil.Code(oops.Code(errutil.CodeUserExists).Errorf("dup")))
	assert.Equal(t, errutil.CodeInternal, errutil.Code(errors.New("boom")))
	assert.Equal(t, errutil.CodeInternal, errutil.Code(oops.Errorf("no code")))
}

func TestUserMessage(t *testing.T) {
	t.Run("deliberate errors surface their message", func(t *testing.T) {
		err := oops.Code(errutil.CodeValidation).Errorf("email must be valid")
		assert.Equal(t, "email must be valid", errutil.UserMessage(err))
	})

	t.Run("internal errors get a generic message", func(t *testing.T) {
		err := oops.Code(errutil.CodeInternal).Wrap(errors.New("pq: connection refused"))
		msg := errutil.UserMessage(err)
		assert.NotContains(t, msg, "connection refused")
	})

	t.Run("plain errors get a generic message", func(t *testing.T) {
		msg := errutil.UserMessage(errors.New("secret detail"))
		assert.NotContains(t, msg, "secret detail")
	})
}

func TestLogError(t *testing.T) {
	t.Run("oops error includes code and context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := oops.Code(errutil.CodeUserExists).With("email", "a@x.com").Errorf("duplicate user")
		errutil.LogError(logger, "sign up failed", err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "sign up failed", record["msg"])
		assert.Equal(t, errutil.CodeUserExists, record["code"])
	})

	t.Run("plain error logs message", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		errutil.LogError(logger, "something failed", errors.New("boom"))
		assert.Contains(t, buf.String(), "boom")
	})
}
