// Package metrics holds the Prometheus collectors shared by the HTTP and
// gRPC transports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the request collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a private registry with the Go and process collectors and
// the kvauth request metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kvauth_requests_total",
				Help: "Total number of requests by transport, operation and outcome",
			},
			[]string{"transport", "operation", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kvauth_request_duration_seconds",
				Help:    "Request latency by transport and operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport", "operation"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

// Observe records one finished request.
func (m *Metrics) Observe(transport, operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(transport, operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(transport, operation).Observe(seconds)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
