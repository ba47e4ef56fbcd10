// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"context"

	"github.com/inkpost/inkpost/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// withIdentity stores the resolved session identity in the context.
// A nil identity marks an anonymous request.
func withIdentity(ctx context.Context, identity *auth.PublicIdentity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the session identity, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *auth.PublicIdentity {
	identity, _ := ctx.Value(identityKey).(*auth.PublicIdentity)
	return identity
}
