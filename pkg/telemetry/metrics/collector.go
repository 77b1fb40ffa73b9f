package metrics

import (
	"time"

	"ragstack/llmrouter/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric of the router.
//
// All recording methods are safe on a nil *Collector and when metrics are
// disabled, so callers never need to guard them.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	generateMetrics *GenerateMetrics
	providerMetrics *ProviderMetrics
	settingsMetrics *SettingsMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "llmrouter",
//		Subsystem: "router",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		generateMetrics: NewGenerateMetrics(cfg, registry),
		providerMetrics: NewProviderMetrics(cfg, registry),
		settingsMetrics: NewSettingsMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordGenerate records one router generate call.
//
// Parameters:
//   - provider: active provider id ("" when none is set)
//   - outcome: OutcomeSuccess, OutcomeError, OutcomeNoProvider or OutcomeDebug
//   - duration: time spent in the provider client
func (c *Collector) RecordGenerate(provider, outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	if provider == "" {
		provider = "none"
	}

	c.generateMetrics.Record(provider, outcome, duration)
}

// RecordProviderError records a transport error returned by a provider client.
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.RecordError(provider, errorType)
}

// UpdateProviderHealth updates the health gauge of a provider.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// ForgetProvider drops the health series of a provider that is no longer registered.
func (c *Collector) ForgetProvider(provider string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.ForgetHealth(provider)
}

// RecordRegistry records the outcome of a registry build: its size and
// the providers whose construction failed.
func (c *Collector) RecordRegistry(size int, failed []string) {
	if !c.enabled() {
		return
	}

	c.providerMetrics.SetRegistrySize(size)
	for _, provider := range failed {
		c.providerMetrics.RecordConstructionFailure(provider)
	}
}

// RecordReload records a settings reload.
func (c *Collector) RecordReload(trigger, result string) {
	if !c.enabled() {
		return
	}

	c.settingsMetrics.RecordReload(trigger, result)
}

// RecordSettingsUpdate records a settings update.
func (c *Collector) RecordSettingsUpdate(result string) {
	if !c.enabled() {
		return
	}

	c.settingsMetrics.RecordUpdate(result)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
