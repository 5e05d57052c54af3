package ratelimit

import "context"

// Limiter is the interface for rate limiting operations.
//
// Implementations should use the GCRA (Generic Cell Rate Algorithm)
// for smooth rate limiting without burst issues at window boundaries.
// The interface is storage-agnostic; the server ships an in-memory
// implementation matching its in-memory session store.
type Limiter interface {
	// Allow checks if an event identified by key is allowed under the given
	// config. It atomically advances the limiter state and returns the
	// result. If the event is not allowed, RetryAfter in the result
	// indicates when the next one will be.
	Allow(ctx context.Context, key string, config Config) (Result, error)
}
