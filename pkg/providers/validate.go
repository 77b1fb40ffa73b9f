package providers

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateAPIKey checks the shape of a credential. It does not contact the
// backend; a key that passes may still be rejected later with an AuthError.
func ValidateAPIKey(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return &ConfigError{Provider: provider, Field: "api_key", Message: "API key is required"}
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &ConfigError{Provider: provider, Field: "api_key", Message: "API key must not contain whitespace or control characters"}
		}
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL and returns it
// without a trailing slash.
func ValidateBaseURL(provider, raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", &ConfigError{Provider: provider, Field: "base_url", Message: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ConfigError{Provider: provider, Field: "base_url", Message: "scheme must be http or https"}
	}
	if u.Host == "" {
		return "", &ConfigError{Provider: provider, Field: "base_url", Message: "host is required"}
	}
	return strings.TrimRight(u.String(), "/"), nil
}
