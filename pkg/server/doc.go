// Package server runs the HTTP server of the router.
//
// # Basic Usage
//
//	handler := server.NewHandler(cfg.Server, server.Routes{
//	    API:         api.NewHandler(r, logger),
//	    Checker:     checker,
//	    Version:     health.NewVersionInfo(version, commit, buildTime),
//	    Metrics:     collector.Handler(),
//	    MetricsPath: cfg.Telemetry.Metrics.Path,
//	}, logger)
//
//	srv := server.New(cfg.Server, handler, logger)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// # Graceful Shutdown
//
// Start returns after a graceful shutdown triggered by ctx, SIGINT, SIGTERM
// or Stop. The server stops accepting connections and waits for in-flight
// requests up to server.shutdown_timeout.
//
// # Routes
//
//   - POST /api/query
//   - GET, POST /api/settings/llm
//   - GET /api/providers
//   - GET /health/live, /health/ready, /version
//   - GET /metrics (path configurable, only when metrics are enabled)
//
// Unknown paths get a JSON 404.
//
// # Middleware Chain
//
// Outermost first: recovery, request ID, access logging, CORS, body limit.
package server
