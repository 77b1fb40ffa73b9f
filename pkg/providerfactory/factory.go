package providerfactory

import (
	"fmt"
	"log/slog"
	"time"

	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/providers/anthropic"
	"ragstack/llmrouter/pkg/providers/gemini"
	"ragstack/llmrouter/pkg/providers/generic"
	"ragstack/llmrouter/pkg/providers/openai"
	"ragstack/llmrouter/pkg/settings"
)

// Constructor builds the client for one provider.
type Constructor func(id providers.ProviderID, config providers.ProviderConfig) (providers.Provider, error)

// Transport is per-provider transport tuning taken from the application config.
// Zero values leave the adapter defaults in place.
type Transport struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	MaxTokens  int
}

// Options control how clients are built from settings.
type Options struct {
	// LocalEndpoint is the base URL of the local OpenAI-compatible server.
	// The local provider is only enabled when it is set.
	LocalEndpoint string

	// Transport holds per-provider tuning.
	Transport map[providers.ProviderID]Transport

	// Constructor replaces NewProvider, for tests.
	Constructor Constructor

	Logger *slog.Logger
}

// NewProvider creates the client for id.
//
// Supported providers:
//   - "openai": OpenAI chat completions
//   - "claude": Anthropic Messages API
//   - "gemini": Google Gemini generateContent
//   - "local": any OpenAI-compatible server (Ollama, LM Studio, vLLM, ...)
//
// Example:
//
//	provider, err := NewProvider(providers.OpenAI, providers.ProviderConfig{
//	    Name:   "openai",
//	    Model:  "gpt-4o",
//	    APIKey: "sk-...",
//	})
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func NewProvider(id providers.ProviderID, config providers.ProviderConfig) (providers.Provider, error) {
	slog.Debug("creating provider",
		"provider", id,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	switch id {
	case providers.OpenAI:
		return openai.NewProvider(config)
	case providers.Claude:
		return anthropic.NewProvider(config)
	case providers.Gemini:
		return gemini.NewProvider(config)
	case providers.Local:
		return generic.NewProvider(config)
	default:
		return nil, &providers.ConfigError{
			Provider: string(id),
			Field:    "provider",
			Message:  fmt.Sprintf("unsupported provider %q (supported: openai, claude, gemini, local)", id),
		}
	}
}

// ClientConfig assembles the transport configuration for id from its
// persisted settings and the options. A base URL stored in settings wins over
// the configured one. The local provider always uses LocalEndpoint.
func ClientConfig(id providers.ProviderID, stored settings.ProviderConfig, opts Options) providers.ProviderConfig {
	transport := opts.Transport[id]

	config := providers.ProviderConfig{
		Name:       string(id),
		Model:      stored.ModelOrDefault(id),
		APIKey:     stored.APIKey,
		BaseURL:    transport.BaseURL,
		Timeout:    transport.Timeout,
		MaxRetries: transport.MaxRetries,
		MaxTokens:  transport.MaxTokens,
	}

	if stored.BaseURL != "" {
		config.BaseURL = stored.BaseURL
	}
	if id == providers.Local {
		config.BaseURL = opts.LocalEndpoint
	}

	return config
}

// TransportFromConfig converts the providers section of the application
// config into per-provider Transport tuning.
func TransportFromConfig(cfg config.ProvidersConfig) map[providers.ProviderID]Transport {
	out := make(map[providers.ProviderID]Transport, len(providers.AllProviderIDs()))
	for _, id := range providers.AllProviderIDs() {
		pc, _ := cfg.Get(id)
		out[id] = Transport{
			BaseURL:    pc.BaseURL,
			Timeout:    pc.Timeout,
			MaxRetries: pc.MaxRetries,
			MaxTokens:  pc.MaxTokens,
		}
	}
	return out
}
