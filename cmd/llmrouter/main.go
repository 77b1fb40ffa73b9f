// llmrouter routes generation requests to one of several LLM backends
// (OpenAI, Claude, Gemini or a local OpenAI-compatible server) selected by
// persisted, hot-swappable settings.
//
// Usage:
//
//	# Start the HTTP API
//	llmrouter serve --config /etc/llmrouter/config.yaml
//
//	# One-shot generation with the active provider
//	llmrouter generate "What is retrieval-augmented generation?" --context "..."
//
//	# Inspect and change settings
//	llmrouter providers
//	llmrouter settings show
//	llmrouter settings set --file llm_settings.json
//
//	# Show version information
//	llmrouter version
package main

import "os"

func main() {
	os.Exit(Execute())
}
