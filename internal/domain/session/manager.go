package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Config holds session manager configuration.
type Config struct {
	// TTL is the session lifetime without "remember me". Default: 8 hours.
	TTL time.Duration
	// RememberTTL is the session lifetime with "remember me". Default: 30 days.
	RememberTTL time.Duration
}

// Manager owns the full lifecycle of session records: creation, lookup with
// lazy expiry, explicit clearing, extension, and bulk sweeps. It is
// constructed once at process start and injected into every consumer; there
// is no package-level store.
type Manager struct {
	store       Store
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewManager creates a Manager backed by the given store.
func NewManager(store Store, cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	rememberTTL := cfg.RememberTTL
	if rememberTTL == 0 {
		rememberTTL = RememberTTL
	}
	return &Manager{
		store:       store,
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}
}

// Create mints a session for an identity and returns the raw token alongside
// the stored record. The raw token is the client-held secret; only its digest
// is kept server-side. Key collisions are not defended against: overwriting
// an existing record under the same digest is accepted behavior.
func (m *Manager) Create(ctx context.Context, username string, admin bool, displayName string, rememberMe bool) (string, *Session, error) {
	rawID, err := GenerateToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	ttl := m.ttl
	if rememberMe {
		ttl = m.rememberTTL
	}

	sess := &Session{
		LookupKey:   DigestToken(rawID),
		Username:    username,
		Admin:       admin,
		DisplayName: displayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		RememberMe:  rememberMe,
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return rawID, sess, nil
}

// Lookup resolves a raw token to its session record.
// Returns ErrNotFound for an empty token, an unknown token, or an expired
// record. Finding an expired record deletes it before reporting not found,
// so expired entries never survive a lookup.
func (m *Manager) Lookup(ctx context.Context, rawID string) (*Session, error) {
	if rawID == "" {
		return nil, ErrNotFound
	}

	key := DigestToken(rawID)
	sess, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		if _, err := m.store.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	return sess, nil
}

// Clear removes the session for a raw token. Reports whether a record was
// removed; an empty or unknown token is a no-op returning false.
func (m *Manager) Clear(ctx context.Context, rawID string) (bool, error) {
	if rawID == "" {
		return false, nil
	}
	return m.store.Delete(ctx, DigestToken(rawID))
}

// Extend resets a session's expiry to now plus d (the default TTL when d is
// zero), regardless of whether the record has already passed its old expiry.
// It does not revive entries a prior Lookup or sweep already evicted: if the
// record is gone, Extend reports false.
func (m *Manager) Extend(ctx context.Context, rawID string, d time.Duration) (bool, error) {
	if rawID == "" {
		return false, nil
	}
	if d == 0 {
		d = m.ttl
	}

	sess, err := m.store.Get(ctx, DigestToken(rawID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	sess.ExpiresAt = time.Now().UTC().Add(d)
	if err := m.store.Update(ctx, sess); err != nil {
		return false, fmt.Errorf("failed to extend session: %w", err)
	}
	return true, nil
}

// SweepExpired removes every currently-expired record and returns the count.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	return m.store.Sweep(ctx)
}

// CountActive returns the number of live sessions. It sweeps first so the
// reported count never includes stale entries, at the cost of a full scan.
func (m *Manager) CountActive(ctx context.Context) (int, error) {
	if _, err := m.store.Sweep(ctx); err != nil {
		return 0, err
	}
	return m.store.Len(ctx)
}

// GenerateToken creates a cryptographically random session token.
// Uses crypto/rand for unpredictability. Returns 64 hex characters (32 bytes).
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
