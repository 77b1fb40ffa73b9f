package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ragstack/llmrouter/pkg/providers"
)

// MockProvider is an in-memory implementation of providers.Provider for
// router and registry tests.
type MockProvider struct {
	name  string
	model string

	mu        sync.Mutex
	response  string
	err       error
	panicVal  interface{}
	delay     time.Duration
	healthErr error
	calls     []MockCall
	closed    bool
}

// MockCall records the arguments of one Generate call.
type MockCall struct {
	Prompt  string
	Context string
}

// NewMockProvider creates a mock that answers every prompt with response.
func NewMockProvider(name, model, response string) *MockProvider {
	return &MockProvider{name: name, model: model, response: response}
}

// SetResponse changes the text returned by Generate.
func (m *MockProvider) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// SetError makes Generate fail with err.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetPanic makes Generate panic with v.
func (m *MockProvider) SetPanic(v interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicVal = v
}

// SetDelay makes Generate wait d (or until ctx is done) before answering.
func (m *MockProvider) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetHealthError makes HealthCheck fail with err.
func (m *MockProvider) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

// Calls returns the recorded Generate calls.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Generate implements providers.Provider.
func (m *MockProvider) Generate(ctx context.Context, prompt, promptContext string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Context: promptContext})
	response, err, panicVal, delay := m.response, m.err, m.panicVal, m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", &providers.TimeoutError{Provider: m.name, Timeout: delay, Cause: ctx.Err()}
		}
	}
	if panicVal != nil {
		panic(panicVal)
	}
	if err != nil {
		return "", err
	}
	return response, nil
}

// HealthCheck implements providers.Provider.
func (m *MockProvider) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.healthErr != nil {
		return fmt.Errorf("provider %s is unhealthy: %w", m.name, m.healthErr)
	}
	return nil
}

// GetName implements providers.Provider.
func (m *MockProvider) GetName() string {
	return m.name
}

// GetModel implements providers.Provider.
func (m *MockProvider) GetModel() string {
	return m.model
}

// IsHealthy implements providers.Provider.
func (m *MockProvider) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthErr == nil
}

// GetHealth implements providers.Provider.
func (m *MockProvider) GetHealth() providers.ProviderHealth {
	m.mu.Lock()
	defer m.mu.Unlock()
	return providers.ProviderHealth{
		IsHealthy:     m.healthErr == nil,
		LastError:     m.healthErr,
		TotalRequests: int64(len(m.calls)),
	}
}

// Close implements providers.Provider.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
