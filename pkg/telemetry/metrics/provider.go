package metrics

import (
	"ragstack/llmrouter/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks provider client health and the registry.
//
// Metrics:
//   - llmrouter_router_provider_health: 1=healthy, 0=unhealthy
//   - llmrouter_router_provider_errors_total: transport errors by type
//   - llmrouter_router_registry_providers: clients in the current registry
//   - llmrouter_router_registry_construction_failures_total: failed constructions
type ProviderMetrics struct {
	health               *prometheus.GaugeVec
	errors               *prometheus.CounterVec
	registryProviders    prometheus.Gauge
	constructionFailures *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "error_type"},
		),

		registryProviders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_providers",
				Help:      "Number of provider clients in the current registry",
			},
		),

		constructionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_construction_failures_total",
				Help:      "Total number of provider client construction failures",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		pm.health,
		pm.errors,
		pm.registryProviders,
		pm.constructionFailures,
	)

	return pm
}

// UpdateHealth sets the health gauge for a provider.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}

// ForgetHealth removes the health series of a provider that left the registry.
func (pm *ProviderMetrics) ForgetHealth(provider string) {
	pm.health.DeleteLabelValues(provider)
}

// RecordError records a provider error.
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errors.WithLabelValues(provider, errorType).Inc()
}

// SetRegistrySize sets the number of registered clients.
func (pm *ProviderMetrics) SetRegistrySize(n int) {
	pm.registryProviders.Set(float64(n))
}

// RecordConstructionFailure records a failed client construction.
func (pm *ProviderMetrics) RecordConstructionFailure(provider string) {
	pm.constructionFailures.WithLabelValues(provider).Inc()
}
