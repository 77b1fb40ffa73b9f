// Package middleware provides the HTTP middleware chain of the API server:
// request IDs, access logging, panic recovery, CORS and body size limits.
//
// The server composes them with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RecoveryMiddleware(logger),
//	    middleware.RequestIDMiddleware,
//	    middleware.LoggingMiddleware(logger),
//	    middleware.CORSMiddleware(cfg.CORS),
//	    middleware.BodyLimitMiddleware(cfg.MaxBodyBytes),
//	)
package middleware
