package anthropic

import (
	"context"
	"errors"
	"strings"
	"testing"

	testhelpers "ragstack/llmrouter/internal/providers"
	"ragstack/llmrouter/pkg/providers"
)

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name      string
		config    providers.ProviderConfig
		wantField string
	}{
		{
			name:      "missing api key",
			config:    providers.ProviderConfig{Name: "claude"},
			wantField: "api_key",
		},
		{
			name:      "api key with whitespace",
			config:    providers.ProviderConfig{Name: "claude", APIKey: "sk-ant bad"},
			wantField: "api_key",
		},
		{
			name:      "bad base url",
			config:    providers.ProviderConfig{Name: "claude", APIKey: "sk-ant-1", BaseURL: "ftp://example.com"},
			wantField: "base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			var cfgErr *providers.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(providers.ProviderConfig{APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer provider.Close()

	cfg := provider.GetConfig()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if provider.GetModel() != providers.DefaultClaudeModel {
		t.Errorf("GetModel() = %q, want %q", provider.GetModel(), providers.DefaultClaudeModel)
	}
	if provider.GetName() != "claude" {
		t.Errorf("GetName() = %q, want claude", provider.GetName())
	}
}

func TestProvider_Generate(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/messages", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockAnthropicResponse("Hello, world!", "claude-3-5-sonnet"),
	})

	provider, err := NewProvider(testhelpers.TestConfig("claude", "claude-3-5-sonnet", mock.URL()))
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer provider.Close()

	text, err := provider.Generate(context.Background(), "Hello", "Project X ships in May.")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if text != "Hello, world!" {
		t.Errorf("Generate() = %q, want %q", text, "Hello, world!")
	}

	req, ok := mock.LastRequest()
	if !ok {
		t.Fatal("no request recorded")
	}
	if got := req.Header.Get("x-api-key"); got != "test-key" {
		t.Errorf("x-api-key = %q, want test-key", got)
	}
	if got := req.Header.Get("anthropic-version"); got != DefaultAnthropicVersion {
		t.Errorf("anthropic-version = %q", got)
	}

	var body AnthropicRequest
	if err := req.JSON(&body); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if !strings.Contains(body.System, "Project X ships in May.") {
		t.Errorf("system = %q, want context embedded", body.System)
	}
	if len(body.Messages) != 1 || body.Messages[0].Content != "Hello" {
		t.Errorf("messages = %+v", body.Messages)
	}
	if body.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", body.MaxTokens, DefaultMaxTokens)
	}
}

func TestProvider_Generate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response testhelpers.MockResponse
		check    func(t *testing.T, err error)
	}{
		{
			name:     "auth",
			response: testhelpers.MockAuthError(),
			check: func(t *testing.T, err error) {
				var authErr *providers.AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %v", err)
				}
			},
		},
		{
			name:     "rate limit",
			response: testhelpers.MockRateLimitError(30),
			check: func(t *testing.T, err error) {
				var rlErr *providers.RateLimitError
				if !errors.As(err, &rlErr) {
					t.Fatalf("expected RateLimitError, got %v", err)
				}
				if rlErr.RetryAfter.Seconds() != 30 {
					t.Errorf("RetryAfter = %s, want 30s", rlErr.RetryAfter)
				}
			},
		},
		{
			name:     "malformed body",
			response: testhelpers.MockMalformed(),
			check: func(t *testing.T, err error) {
				var parseErr *providers.ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected ParseError, got %v", err)
				}
			},
		},
		{
			name: "no text blocks",
			response: testhelpers.MockResponse{
				StatusCode: 200,
				Body:       map[string]interface{}{"id": "msg_1", "content": []interface{}{}, "stop_reason": "max_tokens"},
			},
			check: func(t *testing.T, err error) {
				var emptyErr *providers.EmptyResponseError
				if !errors.As(err, &emptyErr) {
					t.Errorf("expected EmptyResponseError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()
			mock.SetResponse("/v1/messages", tt.response)

			provider, err := NewProvider(testhelpers.TestConfig("claude", "claude-3-5-sonnet", mock.URL()))
			if err != nil {
				t.Fatalf("NewProvider() failed: %v", err)
			}
			defer provider.Close()

			_, err = provider.Generate(context.Background(), "hi", "")
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/models", testhelpers.MockModelList())

	provider, err := NewProvider(testhelpers.TestConfig("claude", "", mock.URL()))
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer provider.Close()

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() failed: %v", err)
	}
}

func TestTransformRequest_RejectsAssistantFirst(t *testing.T) {
	_, err := transformRequest(&providers.CompletionRequest{
		Model: "claude-3-5-sonnet",
		Messages: []providers.Message{
			{Role: providers.RoleAssistant, Content: "hi"},
		},
	})
	var valErr *providers.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNormalizeStopReason(t *testing.T) {
	tests := map[string]string{
		"end_turn":      providers.FinishReasonStop,
		"stop_sequence": providers.FinishReasonStop,
		"max_tokens":    providers.FinishReasonLength,
		"refusal":       "refusal",
	}
	for in, want := range tests {
		if got := normalizeStopReason(in); got != want {
			t.Errorf("normalizeStopReason(%q) = %q, want %q", in, got, want)
		}
	}
}
