// Package providers defines the uniform text-generation capability the router
// dispatches to, along with the shared HTTP plumbing used by every backend.
//
// # Overview
//
// A Provider turns a prompt and optional supplementary context into text.
// Four backends implement it, one per ProviderID:
//
//   - openai: OpenAI chat completions (package openai)
//   - claude: Anthropic Messages API (package anthropic)
//   - gemini: Google generateContent (package gemini)
//   - local:  any OpenAI-compatible server at LOCAL_LLM_URL (package generic)
//
// The set is closed. Clients are constructed by the providerfactory package
// with a switch over ProviderID; there is no plugin discovery.
//
// # HTTP Base
//
// HTTPProvider supplies what every adapter needs:
//
//   - a pooled http.Client with a per-request timeout
//   - retries with exponential backoff for 5xx and network errors
//   - status mapping into typed errors (AuthError, RateLimitError, ProviderError, TimeoutError)
//   - health bookkeeping; a client is marked unhealthy after 3 consecutive failures
//
// Close only releases idle connections, so a client that was swapped out of
// the registry by a settings reload can still finish requests already in flight.
//
// # Errors
//
// Construction-time problems (missing or malformed credential, bad endpoint)
// are *ConfigError. Everything returned from Generate is a transport failure.
// ErrorType maps any of them onto a short label for metrics.
//
//	text, err := provider.Generate(ctx, "What is the refund policy?", retrieved)
//	if err != nil {
//	    var rl *providers.RateLimitError
//	    if errors.As(err, &rl) {
//	        log.Printf("retry after %s", rl.RetryAfter)
//	    }
//	}
package providers
