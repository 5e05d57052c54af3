// Package service contains the application services wiring domain logic to stores.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/beismanmaps/server/internal/domain/auth"
	"github.com/beismanmaps/server/internal/domain/session"
)

// ErrInvalidInput is returned when a request payload fails validation.
var ErrInvalidInput = errors.New("invalid input")

// AuthService validates credentials and manages login/logout.
type AuthService struct {
	validator *auth.Validator
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(validator *auth.Validator, sessions *session.Manager, logger *slog.Logger) *AuthService {
	return &AuthService{
		validator: validator,
		sessions:  sessions,
		logger:    logger.With("component", "auth"),
	}
}

// Login checks the credentials and mints a session on success.
// Returns the raw token (for the cookie) and the stored record.
// A failed attempt returns auth.ErrInvalidCredentials; it never reveals
// which field was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (string, *session.Session, error) {
	if username == "" || password == "" {
		return "", nil, auth.ErrInvalidCredentials
	}
	if !s.validator.Validate(username, password) {
		s.logger.Warn("failed login attempt", "username", username)
		return "", nil, auth.ErrInvalidCredentials
	}

	rawID, sess, err := s.sessions.Create(ctx, username, true, s.validator.DisplayName(), rememberMe)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("successful login", "username", username, "remember_me", rememberMe)
	return rawID, sess, nil
}

// Logout clears the session for a raw token. Reports whether a session was
// actually removed; logging out with no live session is not an error.
func (s *AuthService) Logout(ctx context.Context, rawID string) (bool, error) {
	cleared, err := s.sessions.Clear(ctx, rawID)
	if err != nil {
		return false, err
	}
	if cleared {
		s.logger.Info("session cleared")
	}
	return cleared, nil
}
