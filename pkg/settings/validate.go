package settings

import (
	"fmt"
	"net/url"
	"strings"

	"ragstack/llmrouter/pkg/providers"
)

// Validate checks the structure of s before it is persisted. Credential
// shape is not checked here: a malformed key is saved and the provider is
// left out of the registry when its client fails to construct.
func Validate(s Settings) error {
	verr := &ValidationError{}

	if s.ActiveProvider != "" && !s.ActiveProvider.Valid() {
		verr.Add(keyActiveProvider, fmt.Sprintf("unknown provider %q", s.ActiveProvider))
	}

	for _, id := range sortedKeys(s.Providers) {
		cfg := s.Providers[id]
		if !id.Valid() {
			verr.Add(string(id), "unknown provider")
			continue
		}
		if cfg.BaseURL != "" {
			if msg := checkURL(cfg.BaseURL); msg != "" {
				verr.Add(string(id)+".base_url", msg)
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func checkURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must use http or https"
	}
	if u.Host == "" {
		return "must include a host"
	}
	return ""
}

func sortedKeys(m map[providers.ProviderID]ProviderConfig) []providers.ProviderID {
	ids := make([]providers.ProviderID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return providers.SortIDs(ids)
}
