// Package auth provides identity resolution and the request authorization gate.
package auth

import "errors"

// Identity is the client-visible view of an authenticated session.
// TokenDigest is the hashed form of the session token, safe to expose in
// diagnostics; the raw token never leaves the cookie.
type Identity struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Admin       bool   `json:"is_admin"`
	TokenDigest string `json:"session_id"`
}

// ErrUnauthorized is returned when a request carries no valid session.
// The transport boundary translates it into an authentication-required
// rejection (HTTP 401).
var ErrUnauthorized = errors.New("authentication required")

// ErrForbidden is returned when a valid session lacks the admin role.
// Only reachable after identity resolution succeeds (HTTP 403).
var ErrForbidden = errors.New("admin access required")

// ErrInvalidCredentials is returned when a login attempt fails.
var ErrInvalidCredentials = errors.New("invalid username or password")
