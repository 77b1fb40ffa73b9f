// Package tracing provides OpenTelemetry tracing for the router.
//
// A Tracer exports spans to an OTLP gRPC collector. When tracing is
// disabled it hands out noop spans, so instrumented code never checks
// whether tracing is on.
//
// # Span Hierarchy
//
//	HTTP POST                (middleware.TracingMiddleware)
//	└── router.generate      (router.Router.GenerateAnswer)
//	    └── provider call    (traceparent injected into the upstream request)
//
// Settings reloads get a router.reload span labelled with their trigger.
//
// # Usage
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	r, err := router.New(ctx, store, router.WithTracer(tracer.Tracer()))
//
// W3C Trace Context and Baggage propagators are installed globally, so an
// incoming traceparent header continues into the provider request.
package tracing
