package generic

import (
	"log/slog"

	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/providers/openai"
)

// placeholderAPIKey is sent to servers that do not check credentials.
const placeholderAPIKey = "not-required"

// Provider is a generic OpenAI-compatible provider adapter.
// It backs the local provider and supports any server that implements the
// OpenAI chat completions format, such as Ollama, LM Studio, vLLM or llama.cpp.
//
// This adapter reuses the OpenAI request/response format but requires an
// explicit base URL and makes the API key optional.
type Provider struct {
	*openai.Provider
}

// NewProvider creates a new generic OpenAI-compatible provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(providers.Local)
	}

	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "endpoint URL is required for the local provider",
		}
	}

	// API key is optional for local models
	if config.APIKey == "" {
		config.APIKey = placeholderAPIKey
	}
	if config.Model == "" {
		config.Model = providers.DefaultLocalModel
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 1
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 5
	}

	openaiProvider, err := openai.NewProvider(config)
	if err != nil {
		return nil, err
	}

	slog.Info("local OpenAI-compatible provider initialized",
		"provider", config.Name,
		"base_url", openaiProvider.GetConfig().BaseURL,
		"model", config.Model,
	)

	return &Provider{Provider: openaiProvider}, nil
}
