package queryservice

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects per-operation counters and latencies for the query
// service and serves them over HTTP.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec

	server *http.Server
	logger *slog.Logger
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics(logger *slog.Logger) *Metrics {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cppmodel",
		Subsystem: "query",
		Name:      "requests_total",
		Help:      "Query requests handled, by operation.",
	}, []string{"operation"})

	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cppmodel",
		Subsystem: "query",
		Name:      "errors_total",
		Help:      "Query requests that produced an error, by operation.",
	}, []string{"operation"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cppmodel",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Query handling latency, by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(requests, errors, duration)

	return &Metrics{
		registry: registry,
		requests: requests,
		errors:   errors,
		duration: duration,
		logger:   logger,
	}
}

// Observe records one handled request.
func (m *Metrics) Observe(operation string, elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if failed {
		m.errors.WithLabelValues(operation).Inc()
	}
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on addr.
// An empty addr disables the endpoint.
func (m *Metrics) Serve(addr string) {
	if m == nil || addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	m.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		m.logger.Info("Metrics endpoint listening", "addr", addr)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops the metrics server.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
