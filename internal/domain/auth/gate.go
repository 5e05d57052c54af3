package auth

import (
	"context"
	"errors"

	"github.com/beismanmaps/server/internal/domain/session"
)

// Gate classifies inbound requests as anonymous, authenticated, or admin,
// based on the raw session token extracted at the transport boundary.
type Gate struct {
	sessions *session.Manager
}

// NewGate creates an authorization gate over the given session manager.
func NewGate(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// ResolveIdentity wraps session lookup into an identity view.
// Returns (nil, nil) for an anonymous request: a missing, unknown, or
// expired token is a normal outcome here, not an error.
func (g *Gate) ResolveIdentity(ctx context.Context, rawID string) (*Identity, error) {
	sess, err := g.sessions.Lookup(ctx, rawID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &Identity{
		Username:    sess.Username,
		DisplayName: sess.DisplayName,
		Admin:       sess.Admin,
		TokenDigest: session.DigestToken(rawID),
	}, nil
}

// RequireAuthenticated resolves the identity and fails with ErrUnauthorized
// when the request is anonymous.
func (g *Gate) RequireAuthenticated(ctx context.Context, rawID string) (*Identity, error) {
	identity, err := g.ResolveIdentity(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrUnauthorized
	}
	return identity, nil
}

// RequireAdmin resolves the identity and fails with ErrUnauthorized for
// anonymous requests, or ErrForbidden when the identity is not an admin.
func (g *Gate) RequireAdmin(ctx context.Context, rawID string) (*Identity, error) {
	identity, err := g.RequireAuthenticated(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !identity.Admin {
		return nil, ErrForbidden
	}
	return identity, nil
}
