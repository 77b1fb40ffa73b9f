package router

import (
	"log/slog"
	"os"

	"ragstack/llmrouter/pkg/providerfactory"
	"ragstack/llmrouter/pkg/telemetry/metrics"

	"go.opentelemetry.io/otel/trace"
)

// EnvDebug enables debug mode when set to "true" and WithDebug is not used.
const EnvDebug = "DEBUG"

// Option configures a Router.
type Option func(*Router)

// WithDebug sets debug mode explicitly, overriding the DEBUG environment
// variable. In debug mode Generate answers with a placeholder instead of
// failing when no provider is usable.
func WithDebug(debug bool) Option {
	return func(r *Router) {
		r.debug = debug
		r.debugSet = true
	}
}

// WithLocalEndpoint sets the local server URL. It defaults to the store's
// local endpoint.
func WithLocalEndpoint(endpoint string) Option {
	return func(r *Router) {
		r.factory.LocalEndpoint = endpoint
		r.endpointSet = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records router metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(r *Router) {
		r.metrics = collector
	}
}

// WithTracer records a span per Generate call and per reload.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithFactoryOptions sets the options used for every registry build.
// A LocalEndpoint in opts is kept unless WithLocalEndpoint is also used.
func WithFactoryOptions(opts providerfactory.Options) Option {
	return func(r *Router) {
		endpoint := r.factory.LocalEndpoint
		r.factory = opts
		if r.endpointSet {
			r.factory.LocalEndpoint = endpoint
		} else if opts.LocalEndpoint != "" {
			r.endpointSet = true
		}
	}
}

func debugFromEnv() bool {
	return os.Getenv(EnvDebug) == "true"
}
