package metrics

import (
	"ragstack/llmrouter/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Reload triggers.
const (
	TriggerStartup = "startup"
	TriggerUpdate  = "update"
	TriggerWatch   = "watch"
	TriggerManual  = "manual"
)

// Results of a reload or update.
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultPersistence = "persistence_error"
	ResultError       = "error"
)

// SettingsMetrics tracks settings reloads and updates.
//
// Metrics:
//   - llmrouter_router_settings_reloads_total: registry rebuilds by trigger and result
//   - llmrouter_router_settings_updates_total: update calls by result
type SettingsMetrics struct {
	reloads *prometheus.CounterVec
	updates *prometheus.CounterVec
}

// NewSettingsMetrics creates and registers settings metrics with the provided registry.
func NewSettingsMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SettingsMetrics {
	sm := &SettingsMetrics{
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "settings_reloads_total",
				Help:      "Total number of settings reloads by trigger and result",
			},
			[]string{"trigger", "result"},
		),

		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "settings_updates_total",
				Help:      "Total number of settings updates by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(sm.reloads, sm.updates)

	return sm
}

// RecordReload records a settings reload.
func (sm *SettingsMetrics) RecordReload(trigger, result string) {
	sm.reloads.WithLabelValues(trigger, result).Inc()
}

// RecordUpdate records a settings update.
func (sm *SettingsMetrics) RecordUpdate(result string) {
	sm.updates.WithLabelValues(result).Inc()
}
