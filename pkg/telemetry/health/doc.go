// Package health provides liveness and readiness probes and a scheduled
// provider health prober.
//
// # Endpoints
//
//   - /health/live: the process is running
//   - /health/ready: every registered check passes (503 otherwise)
//   - /version: build information
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("providers", health.ProvidersCheck(rt, cfg.Telemetry.Health.RequireProvider))
//	health.Register(mux, checker, health.NewVersionInfo(version, commit, buildTime))
//
//	prober := health.NewProber(rt, cfg.Telemetry.Health.Schedule, cfg.Telemetry.Health.CheckTimeout, collector)
//	if err := prober.Start(ctx); err != nil {
//	    return err
//	}
//	defer prober.Stop()
package health
