package relay

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the relay's Prometheus collectors. Each server owns its own
// registry so several servers can run in one process.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UpstreamLatency     prometheus.Histogram
	UpstreamFailures    prometheus.Counter
	RateLimitHits       prometheus.Counter
}

// NewMetrics creates and registers the relay collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glasschat_relay_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glasschat_relay_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		UpstreamLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "glasschat_relay_upstream_latency_seconds",
				Help:    "Gemini generateContent latency",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 25},
			},
		),
		UpstreamFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "glasschat_relay_upstream_failures_total",
				Help: "Gemini calls that failed",
			},
		),
		RateLimitHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "glasschat_relay_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamLatency,
		m.UpstreamFailures,
		m.RateLimitHits,
	)
	return m
}
