package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors / Contient tous les collecteurs de métriques Prometheus
type Metrics struct {
	// Business metrics
	Operations *prometheus.CounterVec // Service operations by entity, op and outcome

	// Store metrics
	StatementDuration *prometheus.HistogramVec // SQL statement latency by operation
	StatementErrors   *prometheus.CounterVec   // Failed SQL statements by operation

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // Total HTTP requests by method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // HTTP request latency in seconds
	ActiveConnections   prometheus.Gauge         // Current number of active HTTP connections

	// Security metrics
	RateLimitHits *prometheus.CounterVec // Rate limit violations by endpoint

	// System metrics
	DatabaseConnections prometheus.Gauge // Current database connection pool size
}

// NewMetrics initializes Metrics instance / Initialise une instance Metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		// Business metrics
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "business_operations_total",
				Help: "Total number of business operations by entity, operation and outcome",
			},
			[]string{"entity", "op", "outcome"},
		),

		// Store metrics
		StatementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "store_statement_duration_seconds",
				Help: "SQL statement latency in seconds",
				// 1ms to 5s
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1, 5},
			},
			[]string{"op"},
		),

		StatementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_statement_errors_total",
				Help: "Total number of failed SQL statements by operation",
			},
			[]string{"op"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				// Buckets optimized for API response times: 10ms to 10s
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Current number of active HTTP connections",
			},
		),

		// Security metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_rate_limit_hits_total",
				Help: "Total number of rate limit violations by endpoint",
			},
			[]string{"endpoint"},
		),

		// System metrics
		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "database_connections_active",
				Help: "Current number of open database connections",
			},
		),
	}

	return m
}

// RecordOperation counts one business operation.
// Outcome is "success" or an error kind such as "not_found".
func (m *Metrics) RecordOperation(entity, op, outcome string) {
	m.Operations.WithLabelValues(entity, op, outcome).Inc()
}

// ObserveStatement records the latency of one SQL statement and counts failures.
func (m *Metrics) ObserveStatement(op string, duration time.Duration, err error) {
	m.StatementDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		m.StatementErrors.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request with method, path, and status code.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(statusCode)).Inc()
}

// RecordHTTPDuration records the duration of an HTTP request.
func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementActiveConnections increments the active connections gauge.
func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

// DecrementActiveConnections decrements the active connections gauge.
func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

// RecordRateLimitHit records a rate limit violation for a specific endpoint.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// UpdateDatabaseConnections updates the database connections gauge.
func (m *Metrics) UpdateDatabaseConnections(count int) {
	m.DatabaseConnections.Set(float64(count))
}

// statusCodeToString keeps the codes this API emits exact and groups the rest by class
// Garde exacts les codes émis par l'API et regroupe les autres par classe
func statusCodeToString(code int) string {
	switch code {
	case 200, 201, 204, 400, 404, 409, 413, 429, 500, 503:
		return strconv.Itoa(code)
	}
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	}
	return "unknown"
}
