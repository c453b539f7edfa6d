package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Resolution metrics
	Resolutions        *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	ProvidersActive    prometheus.Gauge

	// Outbound metrics
	UpstreamCalls *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for JSON views.
type Snapshot struct {
	TotalRequests    int64            `json:"total_requests"`
	TotalErrors      int64            `json:"total_errors"`
	ResolutionsByOut map[string]int64 `json:"resolutions"`
}

// NewMetrics creates a metrics collector on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "license_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "license_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000},
			},
			[]string{"method", "route"},
		),

		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_resolutions_total",
				Help: "License resolutions by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ResolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "license_resolution_duration_seconds",
				Help:    "Time spent resolving a license, by provider",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
		ProvidersActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "license_providers_registered",
				Help: "Number of providers in the dispatch chain",
			},
		),

		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_upstream_calls_total",
				Help: "Outbound calls made by providers",
			},
			[]string{"client", "status"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "license_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"breaker"},
		),

		snapshot: Snapshot{ResolutionsByOut: make(map[string]int64)},
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, route).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordResolution records one license resolution.
func (m *Metrics) RecordResolution(providerID, outcome string, duration time.Duration) {
	if providerID == "" {
		providerID = "none"
	}
	m.Resolutions.WithLabelValues(providerID, outcome).Inc()
	m.ResolutionDuration.WithLabelValues(providerID).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.ResolutionsByOut[outcome]++
	m.mu.Unlock()
}

// RecordUpstreamCall records an outbound HTTP call.
func (m *Metrics) RecordUpstreamCall(client, status string) {
	m.UpstreamCalls.WithLabelValues(client, status).Inc()
}

// SetBreakerState publishes a breaker state as a number.
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// SetProviders sets the size of the dispatch chain.
func (m *Metrics) SetProviders(count int) {
	m.ProvidersActive.Set(float64(count))
}

// GetSnapshot returns a copy of the running totals.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := Snapshot{
		TotalRequests:    m.snapshot.TotalRequests,
		TotalErrors:      m.snapshot.TotalErrors,
		ResolutionsByOut: make(map[string]int64, len(m.snapshot.ResolutionsByOut)),
	}
	for k, v := range m.snapshot.ResolutionsByOut {
		out.ResolutionsByOut[k] = v
	}
	return out
}
