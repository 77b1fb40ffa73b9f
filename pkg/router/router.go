package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ragstack/llmrouter/pkg/providerfactory"
	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/settings"
	"ragstack/llmrouter/pkg/telemetry/logging"
	"ragstack/llmrouter/pkg/telemetry/metrics"
	"ragstack/llmrouter/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// SettingsStore is the persistence the Router reads from and writes to.
// It is implemented by *settings.Store.
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, settings.Source)
	Save(ctx context.Context, s settings.Settings) error
	LocalEndpoint() string
}

// state is one immutable settings/registry pair. A reload builds a new
// state and swaps it in whole.
type state struct {
	settings settings.Settings
	source   settings.Source
	registry *providerfactory.Registry
	loadedAt time.Time
}

// Router resolves the active provider and dispatches generation requests
// to its client.
//
// Readers load the current state without locking. UpdateSettings and
// Reload are serialized; a Generate call already in flight finishes on the
// client it started with.
type Router struct {
	store   SettingsStore
	factory providerfactory.Options
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer

	debug       bool
	debugSet    bool
	endpointSet bool

	current atomic.Pointer[state]
	mu      sync.Mutex
	closed  atomic.Bool

	stats *atomicStats
}

// New creates a Router, loading settings once and building the registry.
// Loading never fails: missing or malformed settings give a router with
// no usable provider.
func New(ctx context.Context, store SettingsStore, opts ...Option) (*Router, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}

	r := &Router{
		store:  store,
		logger: slog.Default().With("component", "router"),
		tracer: noop.NewTracerProvider().Tracer(tracing.ScopeName),
		stats:  newAtomicStats(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if !r.debugSet {
		r.debug = debugFromEnv()
	}
	if !r.endpointSet {
		r.factory.LocalEndpoint = store.LocalEndpoint()
	}
	if r.factory.Logger == nil {
		r.factory.Logger = r.logger
	}

	r.current.Store(r.build(ctx))
	r.metrics.RecordReload(metrics.TriggerStartup, metrics.ResultSuccess)

	st := r.current.Load()
	r.logger.InfoContext(ctx, "router initialized",
		"active_provider", st.settings.ActiveProvider,
		"available", st.registry.IDs(),
		"source", st.source,
		"debug", r.debug,
	)
	return r, nil
}

// build loads settings and constructs a registry for them.
func (r *Router) build(ctx context.Context) *state {
	loaded, source := r.store.Load(ctx)
	registry := providerfactory.Build(ctx, loaded, r.factory)

	failed := make([]string, 0, len(registry.Failures()))
	for id := range registry.Failures() {
		failed = append(failed, id.String())
	}
	r.metrics.RecordRegistry(registry.Len(), failed)

	return &state{
		settings: loaded,
		source:   source,
		registry: registry,
		loadedAt: time.Now(),
	}
}

// Debug reports whether debug mode is on.
func (r *Router) Debug() bool {
	return r.debug
}

// LocalEndpoint returns the local server URL used for registry builds.
func (r *Router) LocalEndpoint() string {
	return r.factory.LocalEndpoint
}

// AvailableProviders returns the providers with a constructed client, sorted.
func (r *Router) AvailableProviders() []providers.ProviderID {
	return r.current.Load().registry.IDs()
}

// ActiveProvider returns the configured active provider, whether or not a
// client exists for it.
func (r *Router) ActiveProvider() providers.ProviderID {
	return r.current.Load().settings.ActiveProvider
}

// Settings returns a copy of the current settings, secrets included.
func (r *Router) Settings() settings.Settings {
	return r.current.Load().settings.Clone()
}

// Source reports where the current settings came from.
func (r *Router) Source() settings.Source {
	return r.current.Load().source
}

// LoadedAt returns when the current settings were loaded.
func (r *Router) LoadedAt() time.Time {
	return r.current.Load().loadedAt
}

// Failures returns the construction error of every enabled provider that
// has no client.
func (r *Router) Failures() map[providers.ProviderID]error {
	return r.current.Load().registry.Failures()
}

// Stats returns a copy of the generate counters.
func (r *Router) Stats() Stats {
	return r.stats.snapshot()
}

// Reload re-reads the settings and rebuilds the registry. trigger labels
// the reload in metrics and logs (see metrics.Trigger*).
func (r *Router) Reload(ctx context.Context, trigger string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		r.metrics.RecordReload(trigger, metrics.ResultError)
		return err
	}

	r.swap(ctx, trigger)
	r.metrics.RecordReload(trigger, metrics.ResultSuccess)
	return nil
}

// UpdateSettings validates and persists s, replacing the stored record in
// full, then reloads. It returns a *settings.ValidationError for an invalid
// record and a *settings.PersistenceError when the record cannot be
// written; in both cases the current state is kept.
func (r *Router) UpdateSettings(ctx context.Context, s settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrClosed
	}

	if err := settings.Validate(s); err != nil {
		r.metrics.RecordSettingsUpdate(metrics.ResultInvalid)
		return err
	}
	if err := r.store.Save(ctx, s); err != nil {
		r.metrics.RecordSettingsUpdate(metrics.ResultPersistence)
		r.logger.ErrorContext(ctx, "failed to persist settings", "error", err)
		return err
	}

	st := r.swap(ctx, metrics.TriggerUpdate)
	r.metrics.RecordSettingsUpdate(metrics.ResultSuccess)
	r.metrics.RecordReload(metrics.TriggerUpdate, metrics.ResultSuccess)

	r.logger.InfoContext(ctx, "settings updated",
		"active_provider", st.settings.ActiveProvider,
		"available", st.registry.IDs(),
	)
	return nil
}

// swap builds a new state, installs it and closes the previous clients.
// The caller holds r.mu.
func (r *Router) swap(ctx context.Context, trigger string) *state {
	ctx, span := r.tracer.Start(ctx, "router.reload",
		trace.WithAttributes(attribute.String(tracing.AttrTrigger, trigger)),
	)
	defer span.End()

	next := r.build(ctx)
	span.SetAttributes(attribute.StringSlice(tracing.AttrAvailable, idStrings(next.registry.IDs())))
	prev := r.current.Swap(next)
	r.stats.reloads.Add(1)

	if prev != nil {
		if err := prev.registry.Close(); err != nil {
			r.logger.WarnContext(ctx, "failed to close replaced clients", "error", err)
		}
	}

	r.logger.DebugContext(ctx, "registry rebuilt",
		"trigger", trigger,
		"source", next.source,
		"available", next.registry.IDs(),
	)
	return next
}

// Answer is the outcome of one Generate call.
type Answer struct {
	// Text is the generated text, the debug placeholder, or the error text
	// of a transport failure.
	Text string

	// Provider is the client that served the call, empty when none did.
	Provider providers.ProviderID

	RequestID string

	// Placeholder is set when Text is the debug placeholder.
	Placeholder bool

	// TransportErr is the provider failure that Text describes, if any.
	TransportErr error
}

// Generate produces text for prompt using the active provider. It is
// GenerateAnswer without the metadata.
func (r *Router) Generate(ctx context.Context, prompt, promptContext string) (string, error) {
	answer, err := r.GenerateAnswer(ctx, prompt, promptContext)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

// GenerateAnswer forwards prompt and promptContext to the active
// provider's client. An empty promptContext means none was supplied.
//
// When the active provider is unset or has no client, debug mode answers
// with a placeholder that echoes the prompt and context; otherwise a
// *NoActiveProviderError is returned. A transport failure or a panic in
// the client is never returned: it becomes Answer text of the form
// "Error: <cause>". The Router makes exactly one attempt.
func (r *Router) GenerateAnswer(ctx context.Context, prompt, promptContext string) (Answer, error) {
	if r.closed.Load() {
		return Answer{}, ErrClosed
	}

	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
	}
	r.stats.total.Add(1)

	ctx, span := r.tracer.Start(ctx, "router.generate",
		trace.WithAttributes(attribute.String(tracing.AttrRequestID, requestID)),
	)
	defer span.End()

	st := r.current.Load()
	active := st.settings.ActiveProvider
	client, ok := st.registry.Get(active)

	if active == "" || !ok {
		if r.debug {
			span.SetAttributes(attribute.Bool(tracing.AttrPlaceholder, true))
			r.stats.placeholders.Add(1)
			r.metrics.RecordGenerate(active.String(), metrics.OutcomeDebug, 0)
			r.logger.DebugContext(ctx, "no usable provider, returning debug placeholder",
				"active_provider", active,
			)
			return Answer{
				Text:        DebugPlaceholder(prompt, promptContext),
				RequestID:   requestID,
				Placeholder: true,
			}, nil
		}

		r.stats.unconfigured.Add(1)
		r.metrics.RecordGenerate(active.String(), metrics.OutcomeNoProvider, 0)
		err := &NoActiveProviderError{
			ActiveProvider: active,
			Available:      st.registry.IDs(),
		}
		tracing.SetStatus(span, err)
		return Answer{RequestID: requestID}, err
	}

	tracing.SetProviderAttributes(span, active.String(), client.GetModel())

	ctx = logging.WithProvider(ctx, active.String())
	increment(&r.stats.dispatched, active.String())

	start := time.Now()
	text, err := callClient(ctx, client, prompt, promptContext)
	duration := time.Since(start)

	if err != nil {
		errorType := providers.ErrorType(err)
		increment(&r.stats.errors, active.String())
		r.metrics.RecordGenerate(active.String(), metrics.OutcomeError, duration)
		r.metrics.RecordProviderError(active.String(), errorType)
		tracing.SetErrorAttributes(span, err, errorType)
		r.logger.ErrorContext(ctx, "generation failed",
			"error", err,
			"error_type", errorType,
			"duration", duration,
		)
		return Answer{
			Text:         ErrorText(err),
			Provider:     active,
			RequestID:    requestID,
			TransportErr: err,
		}, nil
	}

	r.metrics.RecordGenerate(active.String(), metrics.OutcomeSuccess, duration)
	tracing.SetStatus(span, nil)
	r.logger.DebugContext(ctx, "generation completed", "duration", duration)

	return Answer{
		Text:      text,
		Provider:  active,
		RequestID: requestID,
	}, nil
}

// callClient runs the client and converts a panic into an error.
func callClient(ctx context.Context, client providers.Provider, prompt, promptContext string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("provider panic: %v", rec)
		}
	}()

	return client.Generate(ctx, prompt, promptContext)
}

// CheckHealth probes every registered client concurrently and returns
// each one's result. Providers without a client are not included.
func (r *Router) CheckHealth(ctx context.Context) map[providers.ProviderID]error {
	registry := r.current.Load().registry
	ids := registry.IDs()

	results := make(map[providers.ProviderID]error, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		client, _ := registry.Get(id)

		wg.Add(1)
		go func(id providers.ProviderID, client providers.Provider) {
			defer wg.Done()

			err := checkClient(ctx, client)

			mu.Lock()
			results[id] = err
			mu.Unlock()
		}(id, client)
	}

	wg.Wait()
	return results
}

func checkClient(ctx context.Context, client providers.Provider) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()

	return client.HealthCheck(ctx)
}

// Close releases every client. Further calls fail with ErrClosed.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Swap(true) {
		return nil
	}

	if err := r.current.Load().registry.Close(); err != nil {
		return fmt.Errorf("failed to close provider clients: %w", err)
	}
	r.logger.Debug("router closed")
	return nil
}
