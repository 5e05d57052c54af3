// Package session manages server-side login sessions bound to opaque
// client-held tokens.
package session

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Default lifetimes for newly created sessions.
const (
	// DefaultTTL is the session lifetime without "remember me".
	DefaultTTL = 8 * time.Hour
	// RememberTTL is the session lifetime when "remember me" was requested.
	RememberTTL = 30 * 24 * time.Hour
)

// Session is a server-side record binding a client-held token to an identity.
// The raw token itself is never stored; the record is keyed by LookupKey.
type Session struct {
	// LookupKey is the one-way digest of the raw token, used as the store key.
	LookupKey string
	// Username is the identity this session belongs to.
	Username string
	// Admin reports whether the identity holds the admin role.
	// The system has exactly two roles: anonymous and admin.
	Admin bool
	// DisplayName is the human-readable label for the identity.
	DisplayName string
	// CreatedAt is when the session was created (UTC).
	CreatedAt time.Time
	// ExpiresAt is when the session becomes invalid (UTC).
	ExpiresAt time.Time
	// RememberMe records whether the long lifetime was requested at creation.
	RememberMe bool
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// DigestToken computes the lookup key for a raw token.
//
// A fast, collision-resistant hash is sufficient here: the digest only
// obscures the in-memory map key, it is not the transport-level secret.
// The raw token remains the actual credential and is generated from a
// cryptographically secure source (see GenerateToken).
func DigestToken(rawID string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(rawID))
}
