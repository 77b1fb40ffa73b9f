package health

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ragstack/llmrouter/pkg/providers"
)

// ProviderSource probes the provider clients of the current registry.
// It is implemented by *router.Router.
type ProviderSource interface {
	CheckHealth(ctx context.Context) map[providers.ProviderID]error
}

// ErrNoProviders is reported when readiness requires a provider and the
// registry is empty.
var ErrNoProviders = errors.New("no providers registered")

// ProvidersCheck returns a readiness check over every registered client.
// It fails when clients exist but none of them is healthy. When
// requireProvider is set an empty registry fails too.
func ProvidersCheck(source ProviderSource, requireProvider bool) CheckFunc {
	return func(ctx context.Context) error {
		results := source.CheckHealth(ctx)
		if len(results) == 0 {
			if requireProvider {
				return ErrNoProviders
			}
			return nil
		}

		var failures []string
		for _, id := range providers.SortIDs(mapKeys(results)) {
			if err := results[id]; err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", id, err))
			}
		}

		if len(failures) == len(results) {
			return fmt.Errorf("no healthy providers: %s", strings.Join(failures, "; "))
		}
		return nil
	}
}

func mapKeys(m map[providers.ProviderID]error) []providers.ProviderID {
	ids := make([]providers.ProviderID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}
