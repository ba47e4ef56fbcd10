// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package auth provides authentication and session primitives for Inkpost.
//
// # Domain Types
//
// Identity is the durable user record this subsystem authenticates against.
// New identities should be created through Service.SignUp, which validates
// input and hashes the credential; direct struct initialization bypasses
// validation and may create invalid state.
//
// # Services
//
//   - Service - sign-up, sign-in, refresh, session resolution
//   - TokenService - signed access/refresh token issuance and verification
//   - CookieStore - the client-held session storage boundary
//
// Sessions are stateless: the pair of signed tokens held by the client is the
// session. There is no server-side session table and no revocation list; a
// token stays valid until its encoded expiry.
package auth
