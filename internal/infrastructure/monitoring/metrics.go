package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Window kernel metrics
	WindowsOpen   prometheus.Gauge
	WindowsOpened prometheus.Counter
	KernelOps     *prometheus.CounterVec

	// VFS metrics
	VFSOps      *prometheus.CounterVec
	VFSDuration *prometheus.HistogramVec
	VFSErrors   *prometheus.CounterVec

	// Session metrics
	SessionsSaved    prometheus.Counter
	SessionsRestored prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector. Each collector owns its
// registry, so independent server instances never collide.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		startTime: time.Now(),
		registry:  registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "duckos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "duckos_windows_open",
				Help: "Number of currently open windows",
			},
		),
		WindowsOpened: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "duckos_windows_opened_total",
				Help: "Total number of windows opened",
			},
		),
		KernelOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckos_kernel_ops_total",
				Help: "Total number of window kernel operations",
			},
			[]string{"op", "outcome"},
		),

		VFSOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckos_vfs_ops_total",
				Help: "Total number of VFS operations",
			},
			[]string{"op"},
		),
		VFSDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "duckos_vfs_op_duration_seconds",
				Help:    "VFS operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"op"},
		),
		VFSErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckos_vfs_errors_total",
				Help: "Total number of VFS operation errors",
			},
			[]string{"op", "kind"},
		),

		SessionsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "duckos_sessions_saved_total",
				Help: "Total number of sessions saved",
			},
		),
		SessionsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "duckos_sessions_restored_total",
				Help: "Total number of sessions restored",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "duckos_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckos_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"type", "direction"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "duckos_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordKernelOp records a window kernel operation and its outcome
// ("ok" or "noop" for unknown-id safety nets)
func (m *Metrics) RecordKernelOp(op, outcome string) {
	m.KernelOps.WithLabelValues(op, outcome).Inc()
}

// RecordWindowOpened records a successful window spawn
func (m *Metrics) RecordWindowOpened(openCount int) {
	m.WindowsOpened.Inc()
	m.WindowsOpen.Set(float64(openCount))
}

// RecordWindowClosed updates the open-window gauge after a close
func (m *Metrics) RecordWindowClosed(openCount int) {
	m.WindowsOpen.Set(float64(openCount))
}

// RecordVFSOp records a VFS operation with its duration
func (m *Metrics) RecordVFSOp(op string, duration time.Duration) {
	m.VFSOps.WithLabelValues(op).Inc()
	m.VFSDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordVFSError records a failed VFS operation by error kind
func (m *Metrics) RecordVFSError(op, kind string) {
	m.VFSErrors.WithLabelValues(op, kind).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(msgType, direction string) {
	m.WSMessages.WithLabelValues(msgType, direction).Inc()
}

// WSConnectionOpened increments the connection gauge
func (m *Metrics) WSConnectionOpened() {
	m.WSConnections.Inc()
}

// WSConnectionClosed decrements the connection gauge
func (m *Metrics) WSConnectionClosed() {
	m.WSConnections.Dec()
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// Handler exposes the collector's registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.UpdateUptime()
		inner.ServeHTTP(w, r)
	})
}
