package providers

import "context"

// Provider is the interface every text-generation backend client implements.
// The router depends only on this capability set; wire formats stay inside
// the concrete adapters (openai, anthropic, gemini, generic).
//
// All blocking methods accept a context.Context. Implementations must return
// promptly when the context is cancelled.
//
// Example usage:
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//
//	text, err := provider.Generate(ctx, "Summarize the design document", retrieved)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(text)
type Provider interface {
	// Generate produces a completion for prompt. promptContext is optional
	// supplementary text; an empty string means no context was supplied.
	//
	// Errors returned here are transport failures (network, timeout, HTTP
	// status, malformed response). Callers that must always show text to a
	// user are expected to convert them.
	Generate(ctx context.Context, prompt, promptContext string) (string, error)

	// HealthCheck performs a lightweight authenticated request against the
	// backend and reports whether it is reachable.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider identifier (e.g. "openai", "local").
	GetName() string

	// GetModel returns the model this client sends requests for.
	GetModel() string

	// IsHealthy returns the last known health state without doing any I/O.
	IsHealthy() bool

	// GetHealth returns detailed health bookkeeping.
	GetHealth() ProviderHealth

	// Close releases idle resources. It must be safe to call while Generate
	// calls are still in flight on the same client.
	Close() error
}
