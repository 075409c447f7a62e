// Package metrics exposes gateway counters on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DispatchTotal counts dispatched actions by outcome.
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepgate_dispatch_total",
			Help: "Total number of dispatched actions",
		},
		[]string{"action", "status"},
	)

	// DispatchDuration tracks handler latency per action.
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepgate_dispatch_duration_seconds",
			Help:    "Handler execution time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// ActiveConnections tracks currently open client connections.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deepgate_active_connections",
			Help: "Number of open WebSocket connections",
		},
	)

	// FramesTotal counts inbound frames, including malformed ones.
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepgate_frames_total",
			Help: "Total inbound frames by disposition",
		},
		[]string{"disposition"}, // "dispatched", "malformed", "throttled"
	)
)

// ObserveDispatch records one completed dispatch.
func ObserveDispatch(action string, success bool, elapsed time.Duration) {
	status := "ok"
	if !success {
		status = "error"
	}
	DispatchTotal.WithLabelValues(action, status).Inc()
	DispatchDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
