package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beismanmaps/server/internal/adapter/outbound/memory"
	"github.com/beismanmaps/server/internal/domain/session"
)

func newManager(t *testing.T, cfg session.Config) (*session.Manager, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	return session.NewManager(store, cfg), store
}

func TestManager_CreateAndLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	rawID, sess, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if rawID == "" {
		t.Fatal("Create() returned empty token")
	}
	if sess.LookupKey != session.DigestToken(rawID) {
		t.Error("stored LookupKey does not match token digest")
	}
	if sess.RememberMe {
		t.Error("RememberMe should be false")
	}

	got, err := mgr.Lookup(ctx, rawID)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if got.Username != "admin" || !got.Admin || got.DisplayName != "Administrator" {
		t.Errorf("Lookup() = %+v, want admin identity", got)
	}
}

func TestManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	_, sess, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	ttl := sess.ExpiresAt.Sub(sess.CreatedAt)
	if ttl != session.DefaultTTL {
		t.Errorf("TTL = %v, want %v", ttl, session.DefaultTTL)
	}
}

func TestManager_RememberMeTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	_, sess, err := mgr.Create(ctx, "admin", true, "Administrator", true)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !sess.RememberMe {
		t.Error("RememberMe should be true")
	}

	ttl := sess.ExpiresAt.Sub(sess.CreatedAt)
	if ttl != session.RememberTTL {
		t.Errorf("TTL = %v, want %v", ttl, session.RememberTTL)
	}
}

func TestManager_LookupUnknownToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	if _, err := mgr.Lookup(ctx, "no-such-token"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Lookup(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := mgr.Lookup(ctx, ""); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Lookup(empty) error = %v, want ErrNotFound", err)
	}
}

func TestManager_LookupExpiredDeletes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	// Negative TTL makes every session born expired.
	mgr, store := newManager(t, session.Config{TTL: -time.Hour})

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := mgr.Lookup(ctx, rawID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Lookup(expired) error = %v, want ErrNotFound", err)
	}

	// The lookup must have removed the record, not just hidden it.
	if _, err := store.Get(ctx, session.DigestToken(rawID)); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expired record still present after lookup: err = %v", err)
	}
}

func TestManager_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	removed, err := mgr.Clear(ctx, rawID)
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if !removed {
		t.Error("Clear() = false, want true for existing session")
	}

	// Clearing again is a no-op.
	removed, err = mgr.Clear(ctx, rawID)
	if err != nil {
		t.Fatalf("Clear() second call error: %v", err)
	}
	if removed {
		t.Error("Clear() = true for already-removed session")
	}

	removed, err = mgr.Clear(ctx, "")
	if err != nil || removed {
		t.Errorf("Clear(empty) = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestManager_Extend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	rawID, sess, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	oldExpiry := sess.ExpiresAt

	extended, err := mgr.Extend(ctx, rawID, 48*time.Hour)
	if err != nil {
		t.Fatalf("Extend() error: %v", err)
	}
	if !extended {
		t.Fatal("Extend() = false, want true")
	}

	got, err := mgr.Lookup(ctx, rawID)
	if err != nil {
		t.Fatalf("Lookup() after extend error: %v", err)
	}
	if !got.ExpiresAt.After(oldExpiry) {
		t.Errorf("ExpiresAt = %v, want after %v", got.ExpiresAt, oldExpiry)
	}
}

func TestManager_ExtendZeroUsesDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	before := time.Now().UTC()
	extended, err := mgr.Extend(ctx, rawID, 0)
	if err != nil || !extended {
		t.Fatalf("Extend() = (%v, %v), want (true, nil)", extended, err)
	}

	got, err := mgr.Lookup(ctx, rawID)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	want := before.Add(session.DefaultTTL)
	if got.ExpiresAt.Before(want.Add(-time.Minute)) || got.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", got.ExpiresAt, want)
	}
}

func TestManager_ExtendExpiredButPresent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{TTL: -time.Hour})

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// The record is past its expiry but still in the store; Extend with a
	// positive duration must revive it.
	extended, err := mgr.Extend(ctx, rawID, time.Hour)
	if err != nil {
		t.Fatalf("Extend() error: %v", err)
	}
	if !extended {
		t.Fatal("Extend() = false for expired-but-present session")
	}

	if _, err := mgr.Lookup(ctx, rawID); err != nil {
		t.Errorf("Lookup() after revival error: %v", err)
	}
}

func TestManager_ExtendMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _ := newManager(t, session.Config{})

	extended, err := mgr.Extend(ctx, "no-such-token", time.Hour)
	if err != nil {
		t.Fatalf("Extend() error: %v", err)
	}
	if extended {
		t.Error("Extend() = true for unknown token")
	}
}

func TestManager_SweepAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSessionStore()
	live := session.NewManager(store, session.Config{})
	dead := session.NewManager(store, session.Config{TTL: -time.Hour})

	for i := 0; i < 3; i++ {
		if _, _, err := live.Create(ctx, "admin", true, "Administrator", false); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, _, err := dead.Create(ctx, "admin", true, "Administrator", false); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	count, err := live.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error: %v", err)
	}
	if count != 3 {
		t.Errorf("CountActive() = %d, want 3", count)
	}

	// The count already swept, so a second sweep finds nothing.
	swept, err := live.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error: %v", err)
	}
	if swept != 0 {
		t.Errorf("SweepExpired() = %d, want 0 after CountActive", swept)
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := session.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	b, err := session.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64", len(a))
	}
	if a == b {
		t.Error("two tokens are identical")
	}
}

func TestDigestToken(t *testing.T) {
	t.Parallel()

	d1 := session.DigestToken("some-token")
	d2 := session.DigestToken("some-token")
	d3 := session.DigestToken("other-token")

	if d1 != d2 {
		t.Error("digest is not deterministic")
	}
	if d1 == d3 {
		t.Error("different tokens produced the same digest")
	}
	if len(d1) != 16 {
		t.Errorf("digest length = %d, want 16", len(d1))
	}
}
