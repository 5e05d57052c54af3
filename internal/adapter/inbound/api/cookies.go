package api

import (
	"net/http"

	"github.com/beismanmaps/server/internal/domain/session"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session_id"

// sessionToken extracts the raw session token from the request cookie.
// Returns "" when absent; a missing cookie is indistinguishable from an
// unknown token downstream.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setSessionCookie binds a freshly minted token to the client.
// HttpOnly keeps it away from scripts; expiry matches the session record.
func (h *Handler) setSessionCookie(w http.ResponseWriter, rawID string, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    rawID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
}

// clearSessionCookie instructs the client to drop the session cookie.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
