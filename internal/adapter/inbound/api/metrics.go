// Package api provides the JSON HTTP transport for the Beisman Maps server.
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the server.
// Pass to components that need to record metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveSessions  prometheus.Gauge
	LoginsTotal     *prometheus.CounterVec
	SessionsSwept   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "beisman_maps",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "beisman_maps",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"method"},
		),
		ActiveSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "beisman_maps",
				Name:      "active_sessions",
				Help:      "Number of active login sessions",
			},
		),
		LoginsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "beisman_maps",
				Name:      "logins_total",
				Help:      "Total login attempts",
			},
			[]string{"result"}, // result=ok/failed
		),
		SessionsSwept: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "beisman_maps",
				Name:      "sessions_swept_total",
				Help:      "Total expired sessions removed by sweeps",
			},
		),
	}
}
