package logging

import (
	"regexp"
	"strings"

	"ragstack/llmrouter/pkg/config"
)

// Redactor masks provider credentials in log output.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternSecretKey   = "secret_key"
	PatternGoogleKey   = "google_key"
	PatternBearerToken = "bearer_token"
	PatternKeyHeader   = "api_key_header"
	PatternPassword    = "password"
)

// Redacted replaces values of sensitive attributes.
const Redacted = "[REDACTED]"

// defaultPatterns are applied in order. secret_key covers both OpenAI
// (sk-, sk-proj-) and Anthropic (sk-ant-) keys.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternSecretKey, `sk-(ant-)?[A-Za-z0-9_\-]{4,}`, "sk-${1}***"},
	{PatternGoogleKey, `AIza[0-9A-Za-z_\-]{10,}`, "AIza***"},
	{PatternBearerToken, `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternKeyHeader, `(?i)(x-api-key|x-goog-api-key|api[-_]?key)(["']?\s*[:=]\s*["']?)[^\s"',}]+`, "$1$2***"},
	{PatternPassword, `(?i)(password|passwd|pwd)(\s*[:=]\s*)[^\s"',}]+`, "$1$2***"},
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// customPatterns. Invalid custom patterns are skipped; config validation
// reports them.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = Redacted
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: replacement,
		})
	}

	return r
}

// RedactString masks every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// IsSensitiveKey reports whether an attribute key names a secret.
func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	for _, sensitive := range []string{
		"password", "passwd", "secret", "token",
		"api_key", "apikey", "authorization", "private_key",
	} {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// MaskAPIKey keeps a short prefix of key for correlation.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***"
}
