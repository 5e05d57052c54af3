package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beismanmaps/server/internal/adapter/outbound/memory"
	"github.com/beismanmaps/server/internal/domain/auth"
	"github.com/beismanmaps/server/internal/domain/session"
)

func newGate(t *testing.T) (*auth.Gate, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(memory.NewSessionStore(), session.Config{})
	return auth.NewGate(mgr), mgr
}

func TestGate_ResolveIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate, mgr := newGate(t)

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	identity, err := gate.ResolveIdentity(ctx, rawID)
	if err != nil {
		t.Fatalf("ResolveIdentity() error: %v", err)
	}
	if identity == nil {
		t.Fatal("ResolveIdentity() = nil for a valid token")
	}
	if identity.Username != "admin" || !identity.Admin {
		t.Errorf("identity = %+v, want admin", identity)
	}
	if identity.TokenDigest != session.DigestToken(rawID) {
		t.Error("TokenDigest does not match the token's digest")
	}
}

func TestGate_ResolveIdentityAnonymous(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate, _ := newGate(t)

	for _, token := range []string{"", "unknown-token"} {
		identity, err := gate.ResolveIdentity(ctx, token)
		if err != nil {
			t.Fatalf("ResolveIdentity(%q) error: %v", token, err)
		}
		if identity != nil {
			t.Errorf("ResolveIdentity(%q) = %+v, want nil", token, identity)
		}
	}
}

func TestGate_ResolveIdentityExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(memory.NewSessionStore(), session.Config{TTL: -time.Hour})
	gate := auth.NewGate(mgr)

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	identity, err := gate.ResolveIdentity(ctx, rawID)
	if err != nil {
		t.Fatalf("ResolveIdentity(expired) error: %v", err)
	}
	if identity != nil {
		t.Error("expired token resolved to an identity")
	}
}

func TestGate_RequireAuthenticated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate, mgr := newGate(t)

	if _, err := gate.RequireAuthenticated(ctx, ""); !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("RequireAuthenticated(anonymous) error = %v, want ErrUnauthorized", err)
	}

	rawID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := gate.RequireAuthenticated(ctx, rawID); err != nil {
		t.Errorf("RequireAuthenticated(valid) error: %v", err)
	}
}

func TestGate_RequireAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gate, mgr := newGate(t)

	// Anonymous: unauthorized, not forbidden.
	if _, err := gate.RequireAdmin(ctx, ""); !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("RequireAdmin(anonymous) error = %v, want ErrUnauthorized", err)
	}

	// Authenticated non-admin: forbidden.
	rawID, _, err := mgr.Create(ctx, "viewer", false, "Viewer", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := gate.RequireAdmin(ctx, rawID); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("RequireAdmin(non-admin) error = %v, want ErrForbidden", err)
	}

	// Admin: allowed.
	adminID, _, err := mgr.Create(ctx, "admin", true, "Administrator", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	identity, err := gate.RequireAdmin(ctx, adminID)
	if err != nil {
		t.Fatalf("RequireAdmin(admin) error: %v", err)
	}
	if !identity.Admin {
		t.Error("identity.Admin = false for admin session")
	}
}
