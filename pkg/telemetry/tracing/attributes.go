package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on router spans.
const (
	AttrProvider    = "llmrouter.provider"
	AttrModel       = "llmrouter.model"
	AttrRequestID   = "llmrouter.request_id"
	AttrPlaceholder = "llmrouter.placeholder"
	AttrTrigger     = "llmrouter.reload.trigger"
	AttrAvailable   = "llmrouter.providers.available"
	AttrErrorType   = "llmrouter.error.type"
)

// SetProviderAttributes records which client served a span.
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetErrorAttributes records err with its classification and marks the
// span failed.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	SetStatus(span, err)
}
