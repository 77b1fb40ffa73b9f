// Package generic implements the local provider as a generic OpenAI-compatible adapter.
//
// The endpoint comes from the LOCAL_LLM_URL environment value and must include
// the API prefix of the server, for example:
//
//   - Ollama (http://localhost:11434/v1)
//   - LM Studio (http://localhost:1234/v1)
//   - vLLM (http://localhost:8000/v1)
//   - llama.cpp server (http://localhost:8080/v1)
//
// # Basic Usage
//
//	provider, err := generic.NewProvider(providers.ProviderConfig{
//	    Name:    "local",
//	    BaseURL: os.Getenv("LOCAL_LLM_URL"),
//	    Model:   "llama3",
//	})
//
// No API key is required. When none is configured a placeholder bearer token
// is sent, which OpenAI-compatible local servers ignore.
package generic
