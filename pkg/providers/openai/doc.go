// Package openai implements the OpenAI provider adapter.
//
// The adapter targets the chat completions API. Generate sends supplementary
// context as a leading system message followed by the prompt as the user
// message, and returns the content of the first choice.
//
// # Basic Usage
//
//	provider, err := openai.NewProvider(providers.ProviderConfig{
//	    Name:   "openai",
//	    Model:  "gpt-4o",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(ctx, "Hello!", "")
//
// The same request format is spoken by many self-hosted servers; the generic
// package reuses this adapter for them.
package openai
