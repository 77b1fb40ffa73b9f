// Package anthropic implements the Claude provider adapter.
//
// The adapter speaks Anthropic's Messages API. Supplementary context passed
// to Generate is sent in the dedicated system field; the prompt is the single
// user message. Text content blocks in the reply are concatenated.
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.ProviderConfig{
//	    Name:   "claude",
//	    Model:  "claude-3-5-sonnet",
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(ctx, "What changed in v2?", releaseNotes)
//
// # Errors
//
// A missing or malformed API key fails construction with *providers.ConfigError.
// HTTP failures surface as *providers.AuthError, *providers.RateLimitError,
// *providers.ProviderError or *providers.TimeoutError. A reply without text
// content returns *providers.EmptyResponseError.
package anthropic
