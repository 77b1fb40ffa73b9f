package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"ragstack/llmrouter/pkg/providers"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// apiVersion is the path prefix of the generateContent API.
const apiVersion = "v1beta"

// Provider is the Gemini provider adapter.
// It implements the providers.Provider interface for the generateContent API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Gemini provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = string(providers.Gemini)
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
		config.Model = providers.DefaultGeminiModel
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("Gemini provider initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// Generate sends prompt (with optional context as the system instruction) to generateContent.
func (p *Provider) Generate(ctx context.Context, prompt, promptContext string) (string, error) {
	cfg := p.GetConfig()
	resp, err := p.SendCompletion(ctx, providers.NewGenerateRequest(cfg.Model, prompt, promptContext, cfg.MaxTokens))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SendCompletion sends a completion request to the generateContent endpoint.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, &providers.ValidationError{Field: "messages", Message: "at least one message is required"}
	}

	model := req.Model
	if model == "" {
		model = p.GetModel()
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent",
		p.GetConfig().BaseURL, apiVersion, url.PathEscape(model))

	var geminiResp GeminiResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, endpoint, transformRequest(req), &geminiResp, p.headers()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&geminiResp, model)
	if err != nil {
		return nil, &providers.EmptyResponseError{Provider: p.GetName(), Reason: err.Error()}
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
	return p.ProbeEndpoint(ctx, fmt.Sprintf("%s/%s/models", p.GetConfig().BaseURL, apiVersion), p.headers())
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-goog-api-key": p.GetConfig().APIKey,
	}
}
