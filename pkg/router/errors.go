package router

import (
	"errors"
	"fmt"
	"strings"

	"ragstack/llmrouter/pkg/providers"
)

var (
	// ErrNoActiveProvider is matched by every *NoActiveProviderError.
	ErrNoActiveProvider = errors.New("no active LLM provider configured")

	// ErrClosed is returned by operations on a closed Router.
	ErrClosed = errors.New("router is closed")
)

// NoActiveProviderError is returned by Generate outside debug mode when
// the active provider is unset or has no constructed client.
type NoActiveProviderError struct {
	// ActiveProvider is the configured id, empty when unset.
	ActiveProvider providers.ProviderID

	// Available lists the providers that do have a client.
	Available []providers.ProviderID
}

// Error implements the error interface.
func (e *NoActiveProviderError) Error() string {
	if e.ActiveProvider == "" {
		return ErrNoActiveProvider.Error()
	}

	return fmt.Sprintf("active provider %q is not available (available: [%s])",
		e.ActiveProvider, strings.Join(idStrings(e.Available), ", "))
}

// Is implements error matching for errors.Is().
func (e *NoActiveProviderError) Is(target error) bool {
	return target == ErrNoActiveProvider
}

func idStrings(ids []providers.ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
