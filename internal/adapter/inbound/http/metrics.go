// Package http provides the HTTP transport adapter for the control
// interface.
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the control interface.
type Metrics struct {
	HandshakesTotal *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HandshakesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scenecast",
				Name:      "handshakes_total",
				Help:      "Total number of handshake attempts",
			},
			[]string{"result"}, // result=ok/auth_failed/version_mismatch/error
		),
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scenecast",
				Name:      "requests_total",
				Help:      "Total number of control requests processed",
			},
			[]string{"request_type", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "scenecast",
				Name:      "request_duration_seconds",
				Help:      "Control request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"request_type"},
		),
	}
}
