// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import "github.com/oklog/ulid/v2"

// Capability is a tagged grant over a resource. The set for a given identity
// and resource is derived on demand, never stored.
type Capability string

// Capabilities.
const (
	// CapabilityOwner is held by the author of the resource.
	CapabilityOwner Capability = "owner"
	// CapabilityAdmin is held by admin identities over every resource.
	CapabilityAdmin Capability = "admin"
)

// CapabilitiesFor derives the capability set an identity holds over a
// resource authored by resourceAuthorID. Anonymous callers (nil identity)
// hold nothing.
func CapabilitiesFor(identity *PublicIdentity, resourceAuthorID ulid.ULID) []Capability {
	if identity == nil {
		return nil
	}
	var caps []Capability
	if identity.ID == resourceAuthorID {
		caps = append(caps, CapabilityOwner)
	}
	if identity.IsAdmin() {
		caps = append(caps, CapabilityAdmin)
	}
	return caps
}

// CanMutate reports whether the identity may publish, edit, or delete the
// resource. This is the sole authorization predicate: author or admin, used
// identically across content types.
func CanMutate(identity *PublicIdentity, resourceAuthorID ulid.ULID) bool {
	return len(CapabilitiesFor(identity, resourceAuthorID)) > 0
}
