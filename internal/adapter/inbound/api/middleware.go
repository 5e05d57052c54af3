package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/beismanmaps/server/internal/ctxkey"
	"github.com/beismanmaps/server/internal/domain/auth"
)

// RequestIDMiddleware extracts or generates a request ID and enriches the logger.
// The request ID is stored in context using ctxkey.RequestIDKey.
// An enriched logger with a request_id field is stored using ctxkey.LoggerKey.
func RequestIDMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			enriched := logger.With("request_id", requestID)

			ctx := context.WithValue(r.Context(), ctxkey.RequestIDKey{}, requestID)
			ctx = context.WithValue(ctx, ctxkey.LoggerKey{}, enriched)

			// Set response header for correlation
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFromContext retrieves the enriched logger from context.
// Returns slog.Default() if no logger is in context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.LoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// IdentityFromContext retrieves the resolved identity from context.
// Returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(ctxkey.IdentityKey{}).(*auth.Identity); ok {
		return identity
	}
	return nil
}

// statusRecorder captures the response status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// accessLogMiddleware logs one line per request.
func (h *Handler) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		LoggerFromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// metricsMiddleware records request counts and durations.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		h.metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		h.metrics.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// requireAuth rejects anonymous requests with 401 and stores the resolved
// identity in the request context for the wrapped handler.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.gate.RequireAuthenticated(r.Context(), sessionToken(r))
		if err != nil {
			h.respondGateError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxkey.IdentityKey{}, identity)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin rejects anonymous requests with 401 and authenticated
// non-admin requests with 403. The resolved identity is stored in context.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.gate.RequireAdmin(r.Context(), sessionToken(r))
		if err != nil {
			h.respondGateError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxkey.IdentityKey{}, identity)
		next(w, r.WithContext(ctx))
	}
}

// respondGateError translates gate errors into protocol rejections.
// ErrForbidden is only reachable after identity resolution succeeds, so the
// two statuses stay distinct.
func (h *Handler) respondGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		h.respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "admin access required")
	default:
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
