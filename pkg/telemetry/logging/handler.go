package logging

import (
	"context"
	"log/slog"
)

// Handler wraps another slog.Handler. It adds request-scoped attributes
// from the context and, when a Redactor is set, masks credentials in the
// message and in string attributes.
type Handler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewHandler wraps inner. A nil redactor disables redaction.
func NewHandler(inner slog.Handler, redactor *Redactor) *Handler {
	return &Handler{inner: inner, redactor: redactor}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	msg := record.Message
	if h.redactor != nil {
		msg = h.redactor.RedactString(msg)
	}

	out := slog.NewRecord(record.Time, record.Level, msg, record.PC)
	for _, attr := range contextAttrs(ctx) {
		out.AddAttrs(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.redactAttr(attr))
		return true
	})

	return h.inner.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = h.redactAttr(attr)
	}
	return &Handler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

func (h *Handler) redactAttr(attr slog.Attr) slog.Attr {
	if h.redactor == nil {
		return attr
	}

	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, a := range group {
			redacted[i] = h.redactAttr(a)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}

	case slog.KindString:
		if IsSensitiveKey(attr.Key) {
			return slog.String(attr.Key, MaskAPIKey(attr.Value.String()))
		}
		return slog.String(attr.Key, h.redactor.RedactString(attr.Value.String()))

	case slog.KindAny:
		if err, ok := attr.Value.Any().(error); ok {
			return slog.String(attr.Key, h.redactor.RedactString(err.Error()))
		}
		if IsSensitiveKey(attr.Key) {
			return slog.String(attr.Key, Redacted)
		}
		return attr

	default:
		if IsSensitiveKey(attr.Key) {
			return slog.String(attr.Key, Redacted)
		}
		return attr
	}
}
