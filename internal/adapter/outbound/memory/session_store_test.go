// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/beismanmaps/server/internal/domain/session"
)

func testSession(key string, expiresAt time.Time) *session.Session {
	now := time.Now().UTC()
	return &session.Session{
		LookupKey:   key,
		Username:    "admin",
		Admin:       true,
		DisplayName: "Administrator",
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
}

func TestSessionStore_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	sess := testSession("key-1", time.Now().UTC().Add(time.Hour))
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Username != "admin" {
		t.Errorf("Username = %q, want %q", got.Username, "admin")
	}

	// Mutating the returned copy must not affect the stored record.
	got.Username = "mallory"
	again, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if again.Username != "admin" {
		t.Error("store returned a shared pointer, not a copy")
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSessionStore_GetExpiredRecordStillReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	// Stores hold expired records until someone sweeps or deletes them;
	// expiry interpretation is the caller's job.
	sess := testSession("stale", time.Now().UTC().Add(-time.Hour))
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get(expired) error: %v", err)
	}
	if !got.IsExpired() {
		t.Error("expected an expired record")
	}
}

func TestSessionStore_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	sess := testSession("key-1", time.Now().UTC().Add(time.Hour))
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	sess.ExpiresAt = sess.ExpiresAt.Add(time.Hour)
	if err := store.Update(ctx, sess); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	missing := testSession("missing", time.Now().UTC().Add(time.Hour))
	if err := store.Update(ctx, missing); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	sess := testSession("key-1", time.Now().UTC().Add(time.Hour))
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	removed, err := store.Delete(ctx, "key-1")
	if err != nil || !removed {
		t.Fatalf("Delete() = (%v, %v), want (true, nil)", removed, err)
	}

	removed, err = store.Delete(ctx, "key-1")
	if err != nil || removed {
		t.Fatalf("Delete() second call = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	now := time.Now().UTC()
	for _, s := range []*session.Session{
		testSession("live-1", now.Add(time.Hour)),
		testSession("live-2", now.Add(time.Hour)),
		testSession("dead-1", now.Add(-time.Minute)),
		testSession("dead-2", now.Add(-time.Hour)),
	} {
		if err := store.Put(ctx, s); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
	}

	swept, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if swept != 2 {
		t.Errorf("Sweep() = %d, want 2", swept)
	}

	n, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := session.DigestToken(string(rune('a' + n)))
			sess := testSession(key, time.Now().UTC().Add(time.Hour))
			_ = store.Put(ctx, sess)
			_, _ = store.Get(ctx, key)
			_, _ = store.Len(ctx)
			_, _ = store.Sweep(ctx)
		}(i)
	}
	wg.Wait()

	n, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error: %v", err)
	}
	if n != 10 {
		t.Errorf("Len() = %d, want 10", n)
	}
}

func TestSessionStore_CleanupLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := NewSessionStoreWithConfig(10 * time.Millisecond)

	sess := testSession("stale", time.Now().UTC().Add(-time.Hour))
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	store.StartCleanup(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := store.Len(ctx)
		if err != nil {
			t.Fatalf("Len() error: %v", err)
		}
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("background sweep never removed the expired session")
		}
		time.Sleep(5 * time.Millisecond)
	}

	store.Stop()
	// Stop is idempotent.
	store.Stop()
}

func TestSessionStore_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewSessionStore()
	store.Stop()
}
