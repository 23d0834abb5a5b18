// Package metrics owns the Prometheus registry and the collectors the service updates.
// A nil *Metrics is valid and records nothing, which keeps tests free of registry setup.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pixboard"

// Metrics provides a self-contained Prometheus registry, HTTP metrics and
// gallery-specific counters.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	connections prometheus.Gauge
	broadcasts  prometheus.Counter
	delivered   prometheus.Counter
	dropped     prometheus.Counter
	uploads     *prometheus.CounterVec
	storeCalls  *prometheus.CounterVec
}

// New creates a Metrics instance with a fresh registry and registers collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed, partitioned by status code and method.",
		}, []string{"code", "method"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of latencies for HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Currently connected real-time clients.",
		}),
		broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "broadcasts_total",
			Help:      "Listing broadcasts fanned out to all clients.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "messages_queued_total",
			Help:      "Messages queued for delivery to individual clients.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients_dropped_total",
			Help:      "Clients disconnected because their outbound queue was full.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "requests_total",
			Help:      "Upload requests partitioned by result.",
		}, []string{"result"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "calls_total",
			Help:      "Object store calls partitioned by operation and result.",
		}, []string{"op", "result"}),
	}

	m.reg.MustRegister(
		m.requests, m.latency,
		m.connections, m.broadcasts, m.delivered, m.dropped,
		m.uploads, m.storeCalls,
	)
	return m
}

// Handler returns an http.Handler that serves Prometheus metrics using the internal registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Middleware records request counts and latencies.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		m.requests.WithLabelValues(code, r.Method).Inc()
		m.latency.WithLabelValues(code, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ClientConnected tracks a newly registered real-time client.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// ClientDisconnected tracks a removed real-time client.
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// Broadcast records one fan-out that queued n messages.
func (m *Metrics) Broadcast(n int) {
	if m == nil {
		return
	}
	m.broadcasts.Inc()
	m.delivered.Add(float64(n))
}

// ClientDropped records a client evicted for falling behind.
func (m *Metrics) ClientDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

// Upload records an upload request outcome.
func (m *Metrics) Upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// StoreCall records an object store call outcome.
func (m *Metrics) StoreCall(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeCalls.WithLabelValues(op, result).Inc()
}
