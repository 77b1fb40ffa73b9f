package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ragstack/llmrouter/pkg/providers"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for the chat completions API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(providers.OpenAI)
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
		config.Model = providers.DefaultOpenAIModel
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// Generate sends prompt (with optional context as a system message) to the chat completions API.
func (p *Provider) Generate(ctx context.Context, prompt, promptContext string) (string, error) {
	cfg := p.GetConfig()
	resp, err := p.SendCompletion(ctx, providers.NewGenerateRequest(cfg.Model, prompt, promptContext, cfg.MaxTokens))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SendCompletion sends a completion request to the chat completions endpoint.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/completions", p.GetConfig().BaseURL)

	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, transformRequest(req), &openaiResp, p.headers()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&openaiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}
	if resp.Content == "" {
		return nil, &providers.EmptyResponseError{Provider: p.GetName(), Reason: resp.FinishReason}
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
	return p.ProbeEndpoint(ctx, fmt.Sprintf("%s/models", p.GetConfig().BaseURL), p.headers())
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
	}
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{Field: "request", Message: "request cannot be nil"}
	}
	if req.Model == "" {
		return &providers.ValidationError{Field: "model", Message: "model is required"}
	}
	if len(req.Messages) == 0 {
		return &providers.ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	return nil
}
