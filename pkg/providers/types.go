package providers

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ProviderID identifies one backend in the closed set of supported providers.
// It is the key of the provider registry and the key used in persisted settings.
type ProviderID string

// Supported provider identifiers.
const (
	OpenAI ProviderID = "openai"
	Claude ProviderID = "claude"
	Gemini ProviderID = "gemini"
	Local  ProviderID = "local"
)

// Default models used when the settings record does not name one.
const (
	DefaultOpenAIModel = "gpt-4o"
	DefaultClaudeModel = "claude-3-5-sonnet"
	DefaultGeminiModel = "gemini-1.5-pro"
	DefaultLocalModel  = "local-model"
)

// AllProviderIDs returns every supported provider identifier in a stable order.
func AllProviderIDs() []ProviderID {
	return []ProviderID{OpenAI, Claude, Gemini, Local}
}

// ParseProviderID converts s to a ProviderID. It accepts surrounding
// whitespace and any letter case.
func ParseProviderID(s string) (ProviderID, error) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("unknown provider %q (supported: %s)", s, strings.Join(idStrings(AllProviderIDs()), ", "))
	}
	return id, nil
}

// Valid reports whether id is one of the supported providers.
func (id ProviderID) Valid() bool {
	switch id {
	case OpenAI, Claude, Gemini, Local:
		return true
	}
	return false
}

// DefaultModel returns the model used for id when none is configured.
func (id ProviderID) DefaultModel() string {
	switch id {
	case OpenAI:
		return DefaultOpenAIModel
	case Claude:
		return DefaultClaudeModel
	case Gemini:
		return DefaultGeminiModel
	case Local:
		return DefaultLocalModel
	}
	return ""
}

// RequiresAPIKey reports whether the provider needs a credential to be enabled.
func (id ProviderID) RequiresAPIKey() bool {
	return id != Local
}

func (id ProviderID) String() string {
	return string(id)
}

// SortIDs sorts ids in place in lexical order and returns them.
func SortIDs(ids []ProviderID) []ProviderID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func idStrings(ids []ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Message represents a single message in a conversation.
// It is provider-agnostic and will be transformed to provider-specific formats.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
// It is transformed to provider-specific formats by each adapter.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4o", "claude-3-5-sonnet")
	Model string `json:"model"`

	// Messages is the conversation to complete
	Messages []Message `json:"messages"`

	// Temperature controls randomness (0.0 to 2.0, typically 0.0 to 1.0)
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse represents a provider-agnostic completion response.
// It is normalized from provider-specific response formats.
type CompletionResponse struct {
	// ID is the unique response identifier
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated text content
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption information
	Usage TokenUsage `json:"usage"`
}

// ContextInstruction prefixes supplementary context when it is sent to a model.
const ContextInstruction = "Use the following context to answer the question."

// NewGenerateRequest builds the completion request used by Generate.
// A non-empty promptContext becomes a leading system message.
func NewGenerateRequest(model, prompt, promptContext string, maxTokens int) *CompletionRequest {
	messages := make([]Message, 0, 2)
	if promptContext != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: ContextInstruction + "\n\n" + promptContext,
		})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})

	return &CompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
}

// SplitSystem separates system messages from the rest of the conversation.
// Backends with a dedicated system field (Claude, Gemini) use it.
func SplitSystem(messages []Message) (system string, rest []Message) {
	var parts []string
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			parts = append(parts, msg.Content)
			continue
		}
		rest = append(rest, msg)
	}
	return strings.Join(parts, "\n\n"), rest
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last health check
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential failures
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider
	TotalRequests int64

	// FailedRequests is the total number of failed requests
	FailedRequests int64
}

// ProviderConfig contains the transport configuration of one client instance.
// It is assembled by the provider factory from persisted settings and the
// application configuration.
type ProviderConfig struct {
	// Name is the provider identifier (e.g., "openai", "local")
	Name string

	// Model is the model requests are sent for
	Model string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication key
	APIKey string

	// Timeout is the request timeout duration
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for transient failures
	MaxRetries int

	// MaxTokens bounds the completion length (0 uses the adapter default)
	MaxTokens int

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
