package gemini

import (
	"fmt"
	"strings"

	"ragstack/llmrouter/pkg/providers"
)

// GeminiRequest represents a generateContent request.
type GeminiRequest struct {
	Contents          []GeminiContent   `json:"contents"`
	SystemInstruction *GeminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiContent is a role-tagged list of parts.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a single text part.
type GeminiPart struct {
	Text string `json:"text"`
}

// GenerationConfig carries sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse represents a generateContent response.
type GeminiResponse struct {
	Candidates     []GeminiCandidate `json:"candidates"`
	UsageMetadata  GeminiUsage       `json:"usageMetadata"`
	ModelVersion   string            `json:"modelVersion,omitempty"`
	PromptFeedback *PromptFeedback   `json:"promptFeedback,omitempty"`
}

// GeminiCandidate is one generated candidate.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

// GeminiUsage represents token usage in Gemini format.
type GeminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// PromptFeedback is set when the prompt itself was blocked.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// transformRequest transforms a provider-agnostic request to Gemini format.
func transformRequest(req *providers.CompletionRequest) *GeminiRequest {
	system, rest := providers.SplitSystem(req.Messages)

	geminiReq := &GeminiRequest{
		Contents: make([]GeminiContent, 0, len(rest)),
	}
	if system != "" {
		geminiReq.SystemInstruction = &GeminiContent{Parts: []GeminiPart{{Text: system}}}
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		geminiReq.GenerationConfig = &GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	for _, msg := range rest {
		role := "user"
		if msg.Role == providers.RoleAssistant {
			role = "model"
		}
		geminiReq.Contents = append(geminiReq.Contents, GeminiContent{
			Role:  role,
			Parts: []GeminiPart{{Text: msg.Content}},
		})
	}

	return geminiReq
}

// transformResponse transforms a Gemini response to provider-agnostic format.
func transformResponse(resp *GeminiResponse, model string) (*providers.CompletionResponse, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]

	var content strings.Builder
	for _, part := range candidate.Content.Parts {
		content.WriteString(part.Text)
	}

	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}

	return &providers.CompletionResponse{
		Model:        model,
		Content:      content.String(),
		FinishReason: normalizeFinishReason(candidate.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// normalizeFinishReason normalizes Gemini finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return providers.FinishReasonStop
	case "MAX_TOKENS":
		return providers.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return providers.FinishReasonContentFilter
	default:
		return strings.ToLower(reason)
	}
}
