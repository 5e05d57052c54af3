package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beismanmaps/server/internal/domain/auth"
	"github.com/beismanmaps/server/internal/domain/ratelimit"
	"github.com/beismanmaps/server/internal/domain/record"
	"github.com/beismanmaps/server/internal/domain/session"
	"github.com/beismanmaps/server/internal/service"
)

// Handler provides the JSON API endpoints of the Beisman Maps server.
type Handler struct {
	authService   *service.AuthService
	maps          *service.MapService
	entities      *service.EntityService
	stats         *service.StatsService
	sessions      *session.Manager
	gate          *auth.Gate
	dbPinger      Pinger
	loginLimiter  ratelimit.Limiter
	loginLimit    ratelimit.Config
	metrics       *Metrics
	promRegistry  *prometheus.Registry
	buildInfo     *BuildInfo
	logger        *slog.Logger
	secureCookies bool
	startTime     time.Time
}

// Pinger is the health-check view of the database store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo holds build-time version information.
// Injected via WithBuildInfo to avoid import cycles with the cmd package.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Option configures a Handler dependency.
type Option func(*Handler)

// WithAuthService sets the login/logout service.
func WithAuthService(s *service.AuthService) Option {
	return func(h *Handler) { h.authService = s }
}

// WithMapService sets the map CRUD service.
func WithMapService(s *service.MapService) Option {
	return func(h *Handler) { h.maps = s }
}

// WithEntityService sets the entity CRUD service.
func WithEntityService(s *service.EntityService) Option {
	return func(h *Handler) { h.entities = s }
}

// WithStatsService sets the stats service for admin counts.
func WithStatsService(s *service.StatsService) Option {
	return func(h *Handler) { h.stats = s }
}

// WithSessionManager sets the session manager.
func WithSessionManager(m *session.Manager) Option {
	return func(h *Handler) { h.sessions = m }
}

// WithGate sets the authorization gate.
func WithGate(g *auth.Gate) Option {
	return func(h *Handler) { h.gate = g }
}

// WithDBPinger sets the database health probe.
func WithDBPinger(p Pinger) Option {
	return func(h *Handler) { h.dbPinger = p }
}

// WithLoginLimiter enables per-client throttling of login attempts.
// Without it the login endpoint accepts attempts unthrottled.
func WithLoginLimiter(l ratelimit.Limiter, cfg ratelimit.Config) Option {
	return func(h *Handler) {
		h.loginLimiter = l
		h.loginLimit = cfg
	}
}

// WithMetrics sets the Prometheus metrics and the registry served at /metrics.
func WithMetrics(m *Metrics, reg *prometheus.Registry) Option {
	return func(h *Handler) {
		h.metrics = m
		h.promRegistry = reg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithSecureCookies marks session cookies Secure (HTTPS deployments).
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) { h.secureCookies = secure }
}

// WithBuildInfo sets the build version information.
func WithBuildInfo(info *BuildInfo) Option {
	return func(h *Handler) { h.buildInfo = info }
}

// New creates a Handler with the given options.
func New(opts ...Option) *Handler {
	h := &Handler{
		logger:    slog.Default(),
		startTime: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns an http.Handler with all API routes registered.
// Read endpoints are public; mutations and maintenance are admin-gated.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Auth surface.
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/auth/session", h.handleSessionInfo)
	mux.HandleFunc("POST /api/auth/validate", h.handleValidateSession)
	mux.HandleFunc("POST /api/auth/extend", h.requireAuth(h.handleExtendSession))
	mux.HandleFunc("GET /api/auth/active-sessions", h.requireAdmin(h.handleActiveSessions))
	mux.HandleFunc("DELETE /api/auth/cleanup-sessions", h.requireAdmin(h.handleCleanupSessions))

	// Maps.
	mux.HandleFunc("GET /api/maps", h.handleListMaps)
	mux.HandleFunc("POST /api/maps", h.requireAdmin(h.handleCreateMap))
	mux.HandleFunc("GET /api/maps/{number}", h.handleGetMap)
	mux.HandleFunc("PUT /api/maps/{number}", h.requireAdmin(h.handleUpdateMap))
	mux.HandleFunc("DELETE /api/maps/{number}", h.requireAdmin(h.handleDeleteMap))
	mux.HandleFunc("POST /api/maps/bulk-delete", h.requireAdmin(h.handleBulkDeleteMaps))
	mux.HandleFunc("GET /api/maps/export/csv", h.requireAdmin(h.handleExportMapsCSV))
	mux.HandleFunc("GET /api/maps/{number}/entities", h.handleMapEntities)
	mux.HandleFunc("DELETE /api/maps/{number}/entities/{name}", h.requireAdmin(h.handleDeleteMapEntity))

	// Entities.
	mux.HandleFunc("GET /api/entities", h.handleListEntities)
	mux.HandleFunc("POST /api/entities", h.requireAdmin(h.handleCreateEntity))
	mux.HandleFunc("POST /api/entities/bulk-delete", h.requireAdmin(h.handleBulkDeleteEntities))
	mux.HandleFunc("GET /api/entities/export/csv", h.requireAdmin(h.handleExportEntitiesCSV))
	mux.HandleFunc("GET /api/entities/{id}", h.handleGetEntity)
	mux.HandleFunc("DELETE /api/entities/{id}", h.requireAdmin(h.handleDeleteEntity))

	// Stats and health.
	mux.HandleFunc("GET /api/stats", h.requireAdmin(h.handleStats))
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/system", h.handleSystemInfo)

	if h.promRegistry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.promRegistry, promhttp.HandlerOpts{}))
	}

	// Outer middleware: request ID, access log, metrics.
	var handler http.Handler = mux
	if h.metrics != nil {
		handler = h.metricsMiddleware(handler)
	}
	handler = h.accessLogMiddleware(handler)
	return RequestIDMiddleware(h.logger)(handler)
}

// --- JSON helper methods ---

// respondJSON writes a JSON response with the given status code and data.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error response with the given status code and message.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into the given value.
func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// listParams extracts pagination and search parameters from the query string.
func listParams(r *http.Request) record.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	params := record.ListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   q.Get("search"),
	}
	params.Normalize()
	return params
}
