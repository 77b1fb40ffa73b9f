package providerfactory

import (
	"errors"
	"testing"
	"time"

	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/providers/anthropic"
	"ragstack/llmrouter/pkg/providers/gemini"
	"ragstack/llmrouter/pkg/providers/generic"
	"ragstack/llmrouter/pkg/providers/openai"
	"ragstack/llmrouter/pkg/settings"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		id     providers.ProviderID
		config providers.ProviderConfig
		check  func(providers.Provider) bool
	}{
		{
			id:     providers.OpenAI,
			config: providers.ProviderConfig{Name: "openai", APIKey: "sk-test"},
			check:  func(p providers.Provider) bool { _, ok := p.(*openai.Provider); return ok },
		},
		{
			id:     providers.Claude,
			config: providers.ProviderConfig{Name: "claude", APIKey: "sk-ant-test"},
			check:  func(p providers.Provider) bool { _, ok := p.(*anthropic.Provider); return ok },
		},
		{
			id:     providers.Gemini,
			config: providers.ProviderConfig{Name: "gemini", APIKey: "AIza-test"},
			check:  func(p providers.Provider) bool { _, ok := p.(*gemini.Provider); return ok },
		},
		{
			id:     providers.Local,
			config: providers.ProviderConfig{Name: "local", BaseURL: "http://localhost:11434/v1"},
			check:  func(p providers.Provider) bool { _, ok := p.(*generic.Provider); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, err := NewProvider(tt.id, tt.config)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			defer p.Close()

			if !tt.check(p) {
				t.Errorf("NewProvider(%s) returned %T", tt.id, p)
			}
			if p.GetName() != string(tt.id) {
				t.Errorf("GetName() = %q, want %q", p.GetName(), tt.id)
			}
			if p.GetModel() != tt.id.DefaultModel() {
				t.Errorf("GetModel() = %q, want %q", p.GetModel(), tt.id.DefaultModel())
			}
		})
	}
}

func TestNewProvider_Unsupported(t *testing.T) {
	_, err := NewProvider("mistral", providers.ProviderConfig{Name: "mistral", APIKey: "k"})

	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewProvider() error = %v, want *providers.ConfigError", err)
	}
	if cfgErr.Field != "provider" {
		t.Errorf("Field = %q, want provider", cfgErr.Field)
	}
}

func TestNewProvider_InvalidCredential(t *testing.T) {
	_, err := NewProvider(providers.OpenAI, providers.ProviderConfig{Name: "openai", APIKey: "sk bad key"})

	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewProvider() error = %v, want *providers.ConfigError", err)
	}
	if cfgErr.Field != "api_key" {
		t.Errorf("Field = %q, want api_key", cfgErr.Field)
	}
}

func TestClientConfig(t *testing.T) {
	opts := Options{
		LocalEndpoint: "http://localhost:11434/v1",
		Transport: map[providers.ProviderID]Transport{
			providers.OpenAI: {BaseURL: "https://gateway.internal/v1", Timeout: 30 * time.Second, MaxRetries: 2},
			providers.Local:  {BaseURL: "http://ignored", Timeout: 120 * time.Second},
		},
	}

	t.Run("transport overrides and default model", func(t *testing.T) {
		got := ClientConfig(providers.OpenAI, settings.ProviderConfig{APIKey: "sk-x"}, opts)
		if got.Name != "openai" || got.Model != providers.DefaultOpenAIModel || got.APIKey != "sk-x" {
			t.Errorf("ClientConfig() = %+v", got)
		}
		if got.BaseURL != "https://gateway.internal/v1" || got.Timeout != 30*time.Second || got.MaxRetries != 2 {
			t.Errorf("transport not applied: %+v", got)
		}
	})

	t.Run("stored base url wins", func(t *testing.T) {
		got := ClientConfig(providers.OpenAI, settings.ProviderConfig{APIKey: "sk-x", BaseURL: "https://azure.example/v1"}, opts)
		if got.BaseURL != "https://azure.example/v1" {
			t.Errorf("BaseURL = %q", got.BaseURL)
		}
	})

	t.Run("local uses endpoint", func(t *testing.T) {
		got := ClientConfig(providers.Local, settings.ProviderConfig{Model: "llama3", BaseURL: "http://elsewhere"}, opts)
		if got.BaseURL != opts.LocalEndpoint {
			t.Errorf("BaseURL = %q, want %q", got.BaseURL, opts.LocalEndpoint)
		}
		if got.Model != "llama3" || got.Timeout != 120*time.Second {
			t.Errorf("ClientConfig() = %+v", got)
		}
	})

	t.Run("no transport entry", func(t *testing.T) {
		got := ClientConfig(providers.Gemini, settings.ProviderConfig{APIKey: "k"}, Options{})
		if got.BaseURL != "" || got.Timeout != 0 || got.MaxRetries != 0 {
			t.Errorf("ClientConfig() = %+v, want adapter defaults left zero", got)
		}
	})
}

func TestTransportFromConfig(t *testing.T) {
	cfg := config.ProvidersConfig{
		OpenAI: config.ProviderConfig{BaseURL: "https://gateway.internal/v1", Timeout: 30 * time.Second, MaxRetries: 3},
		Local:  config.ProviderConfig{Timeout: 2 * time.Minute, MaxTokens: 512},
	}

	got := TransportFromConfig(cfg)
	if len(got) != len(providers.AllProviderIDs()) {
		t.Fatalf("len = %d, want one entry per provider", len(got))
	}

	want := map[providers.ProviderID]Transport{
		providers.OpenAI: {BaseURL: "https://gateway.internal/v1", Timeout: 30 * time.Second, MaxRetries: 3},
		providers.Claude: {},
		providers.Gemini: {},
		providers.Local:  {Timeout: 2 * time.Minute, MaxTokens: 512},
	}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("%s: got %+v, want %+v", id, got[id], w)
		}
	}
}
