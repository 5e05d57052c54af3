package session

import (
	"context"
	"errors"
)

// Store provides session persistence keyed by lookup key.
// This interface is defined in the domain to avoid circular imports.
// The in-memory implementation lives in adapter/outbound/memory.
//
// Store implementations do not interpret expiry: Get returns whatever record
// is present, expired or not. Expiry policy (lazy deletion on lookup, bulk
// sweeps) belongs to the Manager, so both policies stay independently
// testable against one locking discipline.
type Store interface {
	// Put stores a session under its LookupKey, overwriting any existing
	// record with the same key.
	Put(ctx context.Context, sess *Session) error

	// Get retrieves a session by lookup key.
	// Returns ErrNotFound if no record exists.
	Get(ctx context.Context, key string) (*Session, error)

	// Update saves changes to an existing session.
	// Returns ErrNotFound if no record exists under the session's LookupKey.
	Update(ctx context.Context, sess *Session) error

	// Delete removes a session. Reports whether a record was removed.
	Delete(ctx context.Context, key string) (bool, error)

	// Sweep removes every record whose expiry is in the past and returns
	// the number removed.
	Sweep(ctx context.Context) (int, error)

	// Len returns the number of records currently stored, expired or not.
	Len(ctx context.Context) (int, error)
}

// ErrNotFound is returned when a session doesn't exist or has expired.
var ErrNotFound = errors.New("session not found")
