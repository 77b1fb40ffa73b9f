// Package telemetry groups the observability packages of the router.
//
// # Components
//
//   - logging: slog construction with credential redaction and request-scoped attributes
//   - metrics: Prometheus collectors for generation, provider health and settings reloads
//   - tracing: OpenTelemetry spans for generation, reloads and HTTP requests
//   - health: liveness and readiness endpoints plus the scheduled provider prober
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(context.Background())
//
// Every component is optional. A nil collector and a disabled tracer turn
// into no-ops, so the router can be embedded without any of them.
//
// # Credential Protection
//
// Provider keys never reach log output in clear text:
//
//   - sk-live-abcdefgh1234 → sk-***
//   - Bearer xyz → Bearer ***
//   - attributes named api_key, token or password → [REDACTED]
package telemetry
