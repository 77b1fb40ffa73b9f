package metrics

import (
	"time"

	"ragstack/llmrouter/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Generate outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeNoProvider = "no_provider"
	OutcomeDebug      = "debug"
)

// GenerateMetrics tracks router generation calls.
//
// Metrics:
//   - llmrouter_router_generate_requests_total: calls by provider and outcome
//   - llmrouter_router_generate_duration_seconds: latency of dispatched calls
type GenerateMetrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewGenerateMetrics creates and registers generation metrics with the provided registry.
func NewGenerateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerateMetrics {
	gm := &GenerateMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_requests_total",
				Help:      "Total number of generate calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_duration_seconds",
				Help:      "Duration of generate calls dispatched to a provider in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(gm.requestsTotal, gm.duration)

	return gm
}

// Record counts one generate call. Duration is only observed for calls
// that reached a provider.
func (gm *GenerateMetrics) Record(provider, outcome string, duration time.Duration) {
	gm.requestsTotal.WithLabelValues(provider, outcome).Inc()

	if outcome == OutcomeSuccess || outcome == OutcomeError {
		gm.duration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}
