package api

import (
	"net/http"
	"runtime"
	"time"
)

// healthResponse is the JSON response for GET /api/health.
type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// systemInfoResponse is the JSON response for GET /api/system.
type systemInfoResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_seconds"`
}

// handleHealth probes the database and reports overall health.
// GET /api/health
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.dbPinger != nil {
		if err := h.dbPinger.Ping(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			resp.Error = err.Error()
			h.respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// handleStats returns admin dashboard counts.
// GET /api/stats (admin)
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	if h.metrics != nil {
		h.metrics.ActiveSessions.Set(float64(stats.ActiveSessions))
	}
	h.respondJSON(w, http.StatusOK, stats)
}

// handleSystemInfo returns version and uptime information.
// GET /api/system
func (h *Handler) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)

	version, commit, buildDate := "dev", "none", "unknown"
	if h.buildInfo != nil {
		version = h.buildInfo.Version
		commit = h.buildInfo.Commit
		buildDate = h.buildInfo.BuildDate
	}

	h.respondJSON(w, http.StatusOK, systemInfoResponse{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Uptime:    uptime.Truncate(time.Second).String(),
		UptimeSec: int64(uptime.Seconds()),
	})
}
