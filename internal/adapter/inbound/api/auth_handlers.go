package api

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/beismanmaps/server/internal/domain/auth"
	"github.com/beismanmaps/server/internal/domain/ratelimit"
)

// --- Request/response types ---

// loginRequest is the JSON payload for POST /api/auth/login.
type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// loginResponse is the JSON response for POST /api/auth/login.
// SessionID carries the token digest, never the raw token.
type loginResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	UserInfo  *auth.Identity `json:"user_info,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// sessionInfoResponse is the JSON response for GET /api/auth/session.
type sessionInfoResponse struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	IsAdmin         bool   `json:"is_admin"`
	Username        string `json:"username,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
}

// apiResponse is the generic success/message envelope used by the auth surface.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Auth handlers ---

// handleLogin validates credentials and mints a session.
// POST /api/auth/login
//
// A failed attempt answers 200 with success=false and no cookie; the
// response never reveals which credential field was wrong.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.loginLimiter != nil {
		result, err := h.loginLimiter.Allow(r.Context(), ratelimit.LoginKey(clientIP(r)), h.loginLimit)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, "internal error during login")
			return
		}
		if !result.Allowed {
			if h.metrics != nil {
				h.metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			}
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			h.respondError(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
	}

	var req loginRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rawID, sess, err := h.authService.Login(r.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if h.metrics != nil {
				h.metrics.LoginsTotal.WithLabelValues("failed").Inc()
			}
			h.respondJSON(w, http.StatusOK, loginResponse{
				Success: false,
				Message: "Invalid username or password",
			})
			return
		}
		h.respondError(w, http.StatusInternalServerError, "internal error during login")
		return
	}

	h.setSessionCookie(w, rawID, sess)
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("ok").Inc()
		if n, err := h.sessions.CountActive(r.Context()); err == nil {
			h.metrics.ActiveSessions.Set(float64(n))
		}
	}

	h.respondJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		UserInfo: &auth.Identity{
			Username:    sess.Username,
			DisplayName: sess.DisplayName,
			Admin:       sess.Admin,
		},
		SessionID: sess.LookupKey,
	})
}

// clientIP extracts the client address for login throttling. The server is
// expected to terminate connections directly, so RemoteAddr is authoritative
// and forwarding headers are ignored.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleLogout clears the session and the cookie.
// POST /api/auth/logout
//
// Always succeeds: logging out without a live session is a no-op.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authService.Logout(r.Context(), sessionToken(r)); err != nil {
		h.respondJSON(w, http.StatusOK, apiResponse{Success: false, Message: "Error during logout"})
		return
	}

	h.clearSessionCookie(w)
	h.respondJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Logged out successfully"})
}

// handleSessionInfo reports the current session state.
// GET /api/auth/session
//
// Anonymous requests get the unauthenticated shape, not an error.
func (h *Handler) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	identity, err := h.gate.ResolveIdentity(r.Context(), sessionToken(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if identity == nil {
		h.respondJSON(w, http.StatusOK, sessionInfoResponse{})
		return
	}

	h.respondJSON(w, http.StatusOK, sessionInfoResponse{
		IsAuthenticated: true,
		IsAdmin:         identity.Admin,
		Username:        identity.Username,
		DisplayName:     identity.DisplayName,
		SessionID:       identity.TokenDigest,
	})
}

// handleValidateSession checks validity of the current session.
// POST /api/auth/validate
func (h *Handler) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	identity, err := h.gate.ResolveIdentity(r.Context(), sessionToken(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if identity == nil {
		h.respondJSON(w, http.StatusOK, apiResponse{
			Success: false,
			Message: "Session is invalid or expired",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Session is valid",
		Data:    identity,
	})
}

// handleExtendSession resets the session expiry to now plus the default TTL.
// POST /api/auth/extend (authenticated)
func (h *Handler) handleExtendSession(w http.ResponseWriter, r *http.Request) {
	extended, err := h.sessions.Extend(r.Context(), sessionToken(r), 0)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !extended {
		// The gate let the request through, so the record vanished between
		// resolution and extension (concurrent logout or sweep).
		h.respondJSON(w, http.StatusOK, apiResponse{Success: false, Message: "Session no longer exists"})
		return
	}

	h.respondJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Session extended"})
}

// handleActiveSessions reports the live session count.
// GET /api/auth/active-sessions (admin)
//
// Sweeps first, so the count never includes stale entries.
func (h *Handler) handleActiveSessions(w http.ResponseWriter, r *http.Request) {
	count, err := h.sessions.CountActive(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.metrics != nil {
		h.metrics.ActiveSessions.Set(float64(count))
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Active session count",
		Data: map[string]any{
			"active_sessions": count,
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleCleanupSessions removes all expired sessions.
// DELETE /api/auth/cleanup-sessions (admin)
func (h *Handler) handleCleanupSessions(w http.ResponseWriter, r *http.Request) {
	swept, err := h.sessions.SweepExpired(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.metrics != nil {
		h.metrics.SessionsSwept.Add(float64(swept))
	}

	h.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Cleaned up expired sessions",
		Data:    map[string]int{"cleaned_sessions": swept},
	})
}
