// Package metrics provides Prometheus metrics for the LLM router.
//
// # Metrics
//
// All names carry the configured namespace and subsystem (llmrouter_router_
// by default):
//
//   - generate_requests_total{provider,outcome}
//   - generate_duration_seconds{provider}
//   - provider_errors_total{provider,error_type}
//   - provider_health{provider}
//   - registry_providers
//   - registry_construction_failures_total{provider}
//   - settings_reloads_total{trigger,result}
//   - settings_updates_total{result}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordGenerate("openai", metrics.OutcomeSuccess, time.Second)
//	collector.UpdateProviderHealth("openai", true)
//	mux.Handle("/metrics", collector.Handler())
package metrics
