package providers

import (
	"strings"
	"testing"
	"time"

	"ragstack/llmrouter/pkg/providers"
)

// TestConfig returns a provider configuration pointing at baseURL.
// Retries are disabled so error-path tests stay fast.
func TestConfig(name, model, baseURL string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                name,
		Model:               model,
		BaseURL:             baseURL,
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		MaxRetries:          0,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// AssertContains fails the test if haystack does not contain needle.
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("expected %q to contain %q", haystack, needle)
	}
}

// WaitForCondition polls condition until it returns true or timeout elapses.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %s: %s", timeout, message)
}
