package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ragstack/llmrouter/pkg/providers"
)

// Provider is the Claude provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPProvider
}

const (
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultMaxTokens is sent when the config does not bound the completion (required by the API).
	DefaultMaxTokens = 4096
)

// NewProvider creates a new Claude provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(providers.Claude)
	}
	if err := providers.ValidateAPIKey(config.Name, config.APIKey); err != nil {
		return nil, err
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	baseURL, err := providers.ValidateBaseURL(config.Name, config.BaseURL)
	if err != nil {
		return nil, err
	}
	config.BaseURL = baseURL

	if config.Model == "" {
		config.Model = providers.DefaultClaudeModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("Claude provider initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// Generate sends prompt (and optional context as the system prompt) to the Messages API.
func (p *Provider) Generate(ctx context.Context, prompt, promptContext string) (string, error) {
	cfg := p.GetConfig()
	resp, err := p.SendCompletion(ctx, providers.NewGenerateRequest(cfg.Model, prompt, promptContext, cfg.MaxTokens))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SendCompletion sends a completion request to Anthropic.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	anthropicReq, err := transformRequest(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/messages", p.GetConfig().BaseURL)

	var anthropicResp AnthropicResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, anthropicReq, &anthropicResp, p.headers()); err != nil {
		return nil, err
	}

	resp := transformResponse(&anthropicResp)
	if resp.Content == "" {
		return nil, &providers.EmptyResponseError{Provider: p.GetName(), Reason: anthropicResp.StopReason}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// HealthCheck lists models to verify the endpoint and credential.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return p.ProbeEndpoint(ctx, fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL), p.headers())
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.GetConfig().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
	}
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
