// Package metrics exposes Prometheus metrics for the backend server. All
// recording methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	// HTTPRequestsTotal counts HTTP requests by route pattern, method and status.
	HTTPRequestsTotal *prometheus.CounterVec
	// RequestLatency tracks HTTP request latency by route pattern, method and status.
	RequestLatency *prometheus.HistogramVec
	// HTTPRequestsInFlight is the number of requests currently being served.
	HTTPRequestsInFlight prometheus.Gauge
	// ValidationsTotal counts credential validations by outcome.
	ValidationsTotal *prometheus.CounterVec
	// RemoteQueriesTotal counts advertising API searches by operation and outcome.
	RemoteQueriesTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a private registry and registers every collector in it,
// together with the Go runtime and process collectors.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_latency_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint", "method", "status"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credential_validations_total",
				Help:      "Total number of credential validations by outcome",
			},
			[]string{"outcome"},
		),
		RemoteQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_queries_total",
				Help:      "Total number of advertising API searches",
			},
			[]string{"operation", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.RequestLatency,
		m.HTTPRequestsInFlight,
		m.ValidationsTotal,
		m.RemoteQueriesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one finished request.
func (m *Metrics) RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	m.RequestLatency.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// RecordValidation records a validation outcome: "valid", or the lower-cased
// error code of the failure.
func (m *Metrics) RecordValidation(result model.ValidationResult) {
	if m == nil {
		return
	}
	outcome := "valid"
	if !result.IsValid {
		outcome = outcomeLabel(result.ErrorCode)
	}
	m.ValidationsTotal.WithLabelValues(outcome).Inc()
}

// RecordRemoteQuery records one advertising API search. err is nil on success.
func (m *Metrics) RecordRemoteQuery(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = outcomeLabel(model.CodeOf(err))
	}
	m.RemoteQueriesTotal.WithLabelValues(operation, outcome).Inc()
}

func outcomeLabel(code model.ErrorCode) string {
	if code == "" {
		return "invalid"
	}
	return strings.ToLower(string(code))
}
