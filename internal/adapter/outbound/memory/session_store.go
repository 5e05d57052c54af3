// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/beismanmaps/server/internal/domain/session"
)

// DefaultCleanupInterval is the default period for the optional background sweep.
const DefaultCleanupInterval = 1 * time.Minute

// SessionStore implements session.Store with an in-memory map keyed by the
// token digest. Thread-safe for concurrent access. Sessions do not survive a
// process restart; durability is an explicit non-goal.
//
// Expiry is enforced by the session.Manager (lazy deletion on lookup) and by
// Sweep. The optional background cleanup goroutine only calls Sweep on a
// timer; it is additive, never a substitute for lazy expiry.
type SessionStore struct {
	sessions        map[string]*session.Session
	mu              sync.RWMutex
	stopChan        chan struct{}
	wg              sync.WaitGroup
	cleanupInterval time.Duration
	once            sync.Once // Prevent double-close panic on Stop()
}

// NewSessionStore creates an in-memory session store with the default
// cleanup interval.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithConfig(DefaultCleanupInterval)
}

// NewSessionStoreWithConfig creates an in-memory session store with a custom
// cleanup interval (used only if StartCleanup is called).
func NewSessionStoreWithConfig(cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{
		sessions:        make(map[string]*session.Session),
		stopChan:        make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}
}

// StartCleanup starts the background sweep goroutine.
// Call Stop() to stop it gracefully.
func (s *SessionStore) StartCleanup(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if n, _ := s.Sweep(context.Background()); n > 0 {
					slog.Debug("swept expired sessions", "count", n)
				}
			}
		}
	}()
}

// Stop stops the background sweep goroutine and waits for it to exit.
// Safe to call multiple times, including when StartCleanup was never called.
func (s *SessionStore) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

// Put stores a session under its LookupKey.
// Overwriting an existing key is accepted: digest collisions between
// distinct tokens are treated as statistically impossible, not defended
// against.
func (s *SessionStore) Put(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	cp := *sess
	s.sessions[sess.LookupKey] = &cp
	return nil
}

// Get retrieves a session by lookup key.
// Expired records are returned as-is: expiry policy belongs to the Manager.
func (s *SessionStore) Get(ctx context.Context, key string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()

	if !ok {
		return nil, session.ErrNotFound
	}

	// Return a copy to prevent mutation
	cp := *sess
	return &cp, nil
}

// Update saves changes to an existing session.
func (s *SessionStore) Update(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.LookupKey]; !ok {
		return session.ErrNotFound
	}

	cp := *sess
	s.sessions[sess.LookupKey] = &cp
	return nil
}

// Delete removes a session. Reports whether a record was removed.
func (s *SessionStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[key]
	delete(s.sessions, key)
	return ok, nil
}

// Sweep removes all records whose expiry is in the past and returns the
// number removed.
func (s *SessionStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for key, sess := range s.sessions {
		if sess.IsExpired() {
			delete(s.sessions, key)
			swept++
		}
	}
	return swept, nil
}

// Len returns the number of records currently stored, expired or not.
func (s *SessionStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Compile-time interface verification.
var _ session.Store = (*SessionStore)(nil)
