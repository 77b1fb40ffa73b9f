package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeSource returns canned probe results and counts calls.
type fakeSource struct {
	mu      sync.Mutex
	results map[providers.ProviderID]error
	calls   int
}

func (f *fakeSource) CheckHealth(ctx context.Context) map[providers.ProviderID]error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	out := make(map[providers.ProviderID]error, len(f.results))
	for id, err := range f.results {
		out[id] = err
	}
	return out
}

func (f *fakeSource) set(results map[providers.ProviderID]error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = results
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNew(t *testing.T) {
	if got := New(0).checkTimeout; got != DefaultCheckTimeout {
		t.Errorf("default timeout = %v", got)
	}
	if got := New(2 * time.Second).checkTimeout; got != 2*time.Second {
		t.Errorf("custom timeout = %v", got)
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("b", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("a", func(ctx context.Context) error { return nil })

	got := checker.ListChecks()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("ListChecks() = %v", got)
	}

	checker.UnregisterCheck("a")
	if got := checker.ListChecks(); len(got) != 1 {
		t.Errorf("ListChecks() after unregister = %v", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		unhealthy  string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"settings":  func(ctx context.Context) error { return nil },
				"providers": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"settings":  func(ctx context.Context) error { return nil },
				"providers": func(ctx context.Context) error { return errors.New("no healthy providers") },
			},
			wantStatus: StatusDegraded,
			unhealthy:  "providers",
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(50 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
			unhealthy:  "slow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
			if tt.unhealthy != "" && status.Checks[tt.unhealthy].Status != StatusUnhealthy {
				t.Errorf("check %q = %+v, want unhealthy", tt.unhealthy, status.Checks[tt.unhealthy])
			}
		})
	}
}

func TestProvidersCheck(t *testing.T) {
	tests := []struct {
		name    string
		results map[providers.ProviderID]error
		require bool
		wantErr string
	}{
		{name: "empty registry allowed", results: nil},
		{name: "empty registry required", results: nil, require: true, wantErr: "no providers registered"},
		{
			name:    "one healthy",
			results: map[providers.ProviderID]error{providers.OpenAI: nil, providers.Claude: errors.New("401")},
		},
		{
			name: "all failing",
			results: map[providers.ProviderID]error{
				providers.OpenAI: errors.New("timeout"),
				providers.Claude: errors.New("401"),
			},
			wantErr: "no healthy providers: claude: 401; openai: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ProvidersCheck(&fakeSource{results: tt.results}, tt.require)
			err := check(context.Background())

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	source := &fakeSource{results: map[providers.ProviderID]error{providers.Local: nil}}
	checker := New(time.Second)
	checker.RegisterCheck("providers", ProvidersCheck(source, true))

	mux := http.NewServeMux()
	Register(mux, checker, NewVersionInfo("1.2.3", "abc123", "2026-10-19"))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "liveness", method: http.MethodGet, path: LivenessPath, wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "liveness head", method: http.MethodHead, path: LivenessPath, wantStatus: http.StatusOK},
		{name: "liveness post", method: http.MethodPost, path: LivenessPath, wantStatus: http.StatusMethodNotAllowed},
		{name: "readiness", method: http.MethodGet, path: ReadinessPath, wantStatus: http.StatusOK, wantBody: `"status":"ready"`},
		{name: "version", method: http.MethodGet, path: VersionPath, wantStatus: http.StatusOK, wantBody: `"version":"1.2.3"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", rec.Body.String(), tt.wantBody)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Errorf("HEAD returned a body: %s", rec.Body.String())
			}
		})
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	source := &fakeSource{results: map[providers.ProviderID]error{providers.Gemini: errors.New("403")}}
	checker := New(time.Second)
	checker.RegisterCheck("providers", ProvidersCheck(source, false))

	rec := httptest.NewRecorder()
	checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, ReadinessPath, nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != StatusDegraded {
		t.Errorf("Status = %q", status.Status)
	}
	if !strings.Contains(status.Checks["providers"].Message, "gemini: 403") {
		t.Errorf("message = %q", status.Checks["providers"].Message)
	}
}

func newTestCollector() *metrics.Collector {
	return metrics.NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "router",
	}, prometheus.NewRegistry())
}

func TestProber_RunOnce(t *testing.T) {
	source := &fakeSource{results: map[providers.ProviderID]error{
		providers.OpenAI: nil,
		providers.Claude: errors.New("401"),
	}}
	collector := newTestCollector()
	prober := NewProber(source, "", time.Second, collector)

	results := prober.RunOnce(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	last, at := prober.Results()
	if at.IsZero() || len(last) != 2 || last[providers.Claude] == nil {
		t.Errorf("Results() = %v at %v", last, at)
	}

	exposition := `
# HELP test_router_provider_health Provider health status (1=healthy, 0=unhealthy)
# TYPE test_router_provider_health gauge
test_router_provider_health{provider="claude"} 0
test_router_provider_health{provider="openai"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(exposition), "test_router_provider_health"); err != nil {
		t.Error(err)
	}

	// A provider that leaves the registry drops its series.
	source.set(map[providers.ProviderID]error{providers.OpenAI: nil})
	prober.RunOnce(context.Background())

	exposition = `
# HELP test_router_provider_health Provider health status (1=healthy, 0=unhealthy)
# TYPE test_router_provider_health gauge
test_router_provider_health{provider="openai"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(exposition), "test_router_provider_health"); err != nil {
		t.Error(err)
	}
}

func TestProber_StartStop(t *testing.T) {
	source := &fakeSource{results: map[providers.ProviderID]error{providers.Local: nil}}
	prober := NewProber(source, "@every 1h", time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := prober.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !prober.IsRunning() {
		t.Fatal("expected prober to be running")
	}
	if prober.NextRun() == nil {
		t.Error("expected a next run time")
	}

	deadline := time.Now().Add(2 * time.Second)
	for source.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if source.callCount() == 0 {
		t.Error("expected an immediate probe on start")
	}

	prober.Stop()
	if prober.IsRunning() {
		t.Error("expected prober to be stopped")
	}
	prober.Stop()
}

func TestProber_Schedule(t *testing.T) {
	source := &fakeSource{}

	disabled := NewProber(source, "", time.Second, nil)
	if err := disabled.Start(context.Background()); err != nil {
		t.Fatalf("Start() with empty schedule error = %v", err)
	}
	if disabled.IsRunning() {
		t.Error("empty schedule should not start the prober")
	}

	invalid := NewProber(source, "every minute", time.Second, nil)
	if err := invalid.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestProber_StopsOnContextCancel(t *testing.T) {
	prober := NewProber(&fakeSource{}, "@every 1h", time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := prober.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for prober.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if prober.IsRunning() {
		t.Error("prober still running after context cancellation")
	}
}
