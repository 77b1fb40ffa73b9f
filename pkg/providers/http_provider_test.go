package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHTTPProvider_RetryOn5xx(t *testing.T) {
	attemptCount := int32(0)

	// Fails once with 500, then succeeds
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attemptCount, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "internal server error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{
		Name:       "test-provider",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	})
	defer provider.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := provider.DoJSONRequest(context.Background(), http.MethodPost, server.URL+"/test", map[string]bool{"test": true}, &out, nil)
	if err != nil {
		t.Fatalf("expected request to succeed after retry, got error: %v", err)
	}
	if out.Message != "success" {
		t.Errorf("Message = %q, want success", out.Message)
	}
	if got := atomic.LoadInt32(&attemptCount); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}

	health := provider.GetHealth()
	if health.TotalRequests != 2 || health.FailedRequests != 1 {
		t.Errorf("health counters = %d total / %d failed, want 2/1", health.TotalRequests, health.FailedRequests)
	}
	if !provider.IsHealthy() {
		t.Error("expected provider to stay healthy")
	}
}

func TestHTTPProvider_NoRetryOn4xx(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %T", err)
				}
			},
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %T", err)
				}
			},
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				if !errors.As(err, &rlErr) {
					t.Errorf("expected RateLimitError, got %T", err)
				}
			},
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var provErr *ProviderError
				if !errors.As(err, &provErr) || provErr.StatusCode != http.StatusNotFound {
					t.Errorf("expected ProviderError with 404, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := int32(0)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			provider := NewHTTPProvider(ProviderConfig{Name: "test", MaxRetries: 3})
			defer provider.Close()

			_, err := provider.DoRequest(context.Background(), http.MethodGet, server.URL, nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)

			if got := atomic.LoadInt32(&attempts); got != 1 {
				t.Errorf("expected 1 attempt, got %d", got)
			}
		})
	}
}

func TestHTTPProvider_MaxRetriesExhausted(t *testing.T) {
	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", MaxRetries: 1})
	defer provider.Close()

	_, err := provider.DoRequest(context.Background(), http.MethodGet, server.URL, nil, nil)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", provErr.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestHTTPProvider_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", MaxRetries: 5})
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := provider.DoRequest(ctx, http.MethodGet, server.URL, nil, nil)
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("request did not stop on cancellation, took %s", elapsed)
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestHTTPProvider_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test"})
	defer provider.Close()

	_, err := provider.DoRequest(context.Background(), http.MethodGet, url, nil, nil)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError wrapping the network failure, got %v", err)
	}
	if provErr.Cause == nil {
		t.Error("expected Cause to carry the network error")
	}
}

func TestHTTPProvider_DoJSONRequest_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test"})
	defer provider.Close()

	var out map[string]interface{}
	err := provider.DoJSONRequest(context.Background(), http.MethodGet, server.URL, nil, &out, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.RawResponse != "<html>oops</html>" {
		t.Errorf("RawResponse = %q", parseErr.RawResponse)
	}
}

func TestHTTPProvider_Defaults(t *testing.T) {
	provider := NewHTTPProvider(ProviderConfig{Name: "test", MaxRetries: -1})
	cfg := provider.GetConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxIdleConns != DefaultMaxIdleConns {
		t.Errorf("MaxIdleConns = %d, want %d", cfg.MaxIdleConns, DefaultMaxIdleConns)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
}

func TestHTTPProvider_CloseWithInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test"})

	done := make(chan error, 1)
	go func() {
		var out map[string]bool
		done <- provider.DoJSONRequest(context.Background(), http.MethodGet, server.URL, nil, &out, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := provider.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	close(release)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("in-flight request failed after Close: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{header: "", want: 0},
		{header: "30", want: 30 * time.Second},
		{header: "garbage", want: 0},
	}

	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}

	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Errorf("parseRetryAfter(HTTP date) = %s, want within (0, 1m]", got)
	}
}

func TestRetryBackoff(t *testing.T) {
	if got := retryBackoff(1); got != time.Second {
		t.Errorf("retryBackoff(1) = %s, want 1s", got)
	}
	if got := retryBackoff(3); got != 4*time.Second {
		t.Errorf("retryBackoff(3) = %s, want 4s", got)
	}
}

func TestHTTPProvider_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test-provider", Timeout: 5 * time.Second})
	defer provider.Close()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	if err := provider.DoJSONRequest(ctx, http.MethodPost, server.URL, map[string]string{}, nil, nil); err != nil {
		t.Fatalf("DoJSONRequest() error = %v", err)
	}

	if want := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"; traceparent != want {
		t.Errorf("traceparent = %q, want %q", traceparent, want)
	}
}
