package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	assert.NotNil(t, m)
	assert.NotNil(t, m.Operations)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.DatabaseConnections)
}

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordOperation("cliente", "create", "success")
	m.RecordOperation("cliente", "create", "conflict")
	m.RecordOperation("cliente", "create", "conflict")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("cliente", "create", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("cliente", "create", "conflict")))
}

func TestObserveStatement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.ObserveStatement("select", 3*time.Millisecond, nil)
	m.ObserveStatement("insert", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.StatementDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatementErrors.WithLabelValues("insert")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StatementErrors.WithLabelValues("select")))
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordHTTPRequest("GET", "/api/clientes", 200)
	m.RecordHTTPRequest("POST", "/api/clientes", 409)
	m.RecordHTTPRequest("GET", "/api/clientes", 302)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/clientes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/clientes", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/clientes", "3xx")))
}

func TestRecordHTTPDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordHTTPDuration("GET", "/api/productos", 100*time.Millisecond)

	expected := `
# HELP http_request_duration_seconds HTTP request latency in seconds
# TYPE http_request_duration_seconds histogram
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="0.01"} 0
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="0.05"} 0
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="0.1"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="0.25"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="0.5"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="1"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="2.5"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="5"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="10"} 1
http_request_duration_seconds_bucket{method="GET",path="/api/productos",le="+Inf"} 1
http_request_duration_seconds_sum{method="GET",path="/api/productos"} 0.1
http_request_duration_seconds_count{method="GET",path="/api/productos"} 1
`
	err := testutil.CollectAndCompare(m.HTTPRequestDuration, strings.NewReader(expected), "http_request_duration_seconds")
	assert.NoError(t, err)
}

func TestActiveConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.IncrementActiveConnections()
	m.IncrementActiveConnections()
	m.DecrementActiveConnections()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConnections))
}

func TestRecordRateLimitHit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordRateLimitHit("/api/productos")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("/api/productos")))
}

func TestUpdateDatabaseConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.UpdateDatabaseConnections(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.DatabaseConnections))
}
