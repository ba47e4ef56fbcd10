// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// errorResponse is the JSON error envelope returned by every endpoint.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP error contract. Internal
// details never reach the client; errutil.UserMessage substitutes a
// generic message for 5xx errors. Services log internal failures at the
// point of wrapping, so nothing is logged here.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errutil.HTTPStatus(err), errorResponse{Error: errorBody{
		Code:    errutil.Code(err),
		Message: errutil.UserMessage(err),
	}})
}
