package server

import (
	"log/slog"
	"net/http"

	"ragstack/llmrouter/pkg/api"
	"ragstack/llmrouter/pkg/api/middleware"
	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/telemetry/health"

	"go.opentelemetry.io/otel/trace"
)

// Routes collects the handlers mounted by NewHandler.
type Routes struct {
	// API serves /api/*.
	API *api.Handler

	// Checker serves the health endpoints. Nil skips them.
	Checker *health.Checker

	Version health.VersionInfo

	// Metrics is mounted at MetricsPath when both are set.
	Metrics     http.Handler
	MetricsPath string

	// Tracer starts a span per request. Nil disables tracing.
	Tracer trace.Tracer
}

// NewHandler builds the route table and wraps it in the middleware chain.
// Recovery is outermost so panics in any other middleware are caught.
func NewHandler(cfg config.ServerConfig, routes Routes, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	if routes.API != nil {
		routes.API.Register(mux)
	}
	if routes.Checker != nil {
		health.Register(mux, routes.Checker, routes.Version)
	}
	if routes.Metrics != nil && routes.MetricsPath != "" {
		mux.Handle(routes.MetricsPath, routes.Metrics)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = api.WriteErrorResponse(w, api.NewErrorResponse(
			"no route for "+r.URL.Path, api.ErrorTypeNotFound, "", "",
		))
	})

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware,
		middleware.TracingMiddleware(routes.Tracer),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORS),
		middleware.BodyLimitMiddleware(cfg.MaxBodyBytes),
	)
}
