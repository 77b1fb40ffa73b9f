package providerfactory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/settings"
)

// ConstructionError reports a provider whose client could not be built.
// It is recorded on the registry and the provider is left out.
type ConstructionError struct {
	Provider providers.ProviderID
	Cause    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct provider %q: %v", e.Provider, e.Cause)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Registry maps provider ids to constructed clients.
// It is immutable once built: a settings change produces a new Registry.
type Registry struct {
	clients  map[providers.ProviderID]providers.Provider
	failures map[providers.ProviderID]error
}

// EmptyRegistry returns a registry with no clients.
func EmptyRegistry() *Registry {
	return &Registry{
		clients:  map[providers.ProviderID]providers.Provider{},
		failures: map[providers.ProviderID]error{},
	}
}

// Build constructs a client for every enabled provider in s. Providers are
// independent: a construction failure is logged and recorded, and the
// remaining providers are still built.
func Build(ctx context.Context, s settings.Settings, opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "registry")
	}
	construct := opts.Constructor
	if construct == nil {
		construct = NewProvider
	}

	r := EmptyRegistry()
	for _, id := range providers.AllProviderIDs() {
		if !s.Enabled(id, opts.LocalEndpoint) {
			continue
		}

		stored, _ := s.Provider(id)
		client, err := safeConstruct(construct, id, ClientConfig(id, stored, opts))
		if err != nil {
			cerr := &ConstructionError{Provider: id, Cause: err}
			r.failures[id] = cerr
			logger.WarnContext(ctx, "provider unavailable", "provider", id, "error", err)
			continue
		}

		r.clients[id] = client
		logger.DebugContext(ctx, "provider registered", "provider", id, "model", client.GetModel())
	}

	logger.InfoContext(ctx, "provider registry built",
		"available", r.IDs(),
		"failed", len(r.failures),
	)
	return r
}

func safeConstruct(construct Constructor, id providers.ProviderID, config providers.ProviderConfig) (client providers.Provider, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			client, err = nil, fmt.Errorf("panic during construction: %v", rec)
		}
	}()

	client, err = construct(id, config)
	if err == nil && client == nil {
		err = errors.New("constructor returned no client")
	}
	return client, err
}

// Get returns the client for id.
func (r *Registry) Get(id providers.ProviderID) (providers.Provider, bool) {
	client, ok := r.clients[id]
	return client, ok
}

// Has reports whether id has a client.
func (r *Registry) Has(id providers.ProviderID) bool {
	_, ok := r.clients[id]
	return ok
}

// IDs returns the ids with a client, sorted.
func (r *Registry) IDs() []providers.ProviderID {
	ids := make([]providers.ProviderID, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return providers.SortIDs(ids)
}

// Len returns the number of clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Failures returns the construction errors of the last build, keyed by provider.
func (r *Registry) Failures() map[providers.ProviderID]error {
	out := make(map[providers.ProviderID]error, len(r.failures))
	for id, err := range r.failures {
		out[id] = err
	}
	return out
}

// Close releases every client. Clients only drop idle connections, so calls
// still in flight on them complete normally.
func (r *Registry) Close() error {
	var errs []error
	for _, id := range r.IDs() {
		if err := r.clients[id].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
