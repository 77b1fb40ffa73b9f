package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Backend is durable storage for the serialized settings record.
type Backend interface {
	// Read returns the stored record, or ErrNotFound if none exists.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored record in full.
	Write(ctx context.Context, data []byte) error

	// Location describes where the record lives, for logs and errors.
	Location() string

	Close() error
}

// Source describes where the settings returned by Store.Load came from.
type Source string

const (
	// SourceStored means the persisted record was decoded successfully.
	SourceStored Source = "stored"

	// SourceLocalFallback means no record exists and the local endpoint
	// was used as an implicit configuration.
	SourceLocalFallback Source = "local_fallback"

	// SourceEmpty means no record exists and no local endpoint is set.
	SourceEmpty Source = "empty"

	// SourceDegraded means a record exists but could not be loaded.
	SourceDegraded Source = "degraded"
)

// Store loads and saves Settings through a Backend.
type Store struct {
	backend       Backend
	localEndpoint string
	logger        *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLocalEndpoint sets the local endpoint consulted when no record exists.
func WithLocalEndpoint(endpoint string) StoreOption {
	return func(s *Store) {
		s.localEndpoint = strings.TrimSpace(endpoint)
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store on top of backend.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default().With("component", "settings"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the backend location.
func (s *Store) Location() string {
	return s.backend.Location()
}

// LocalEndpoint returns the configured local endpoint, possibly empty.
func (s *Store) LocalEndpoint() string {
	return s.localEndpoint
}

// Read returns the persisted settings. It returns ErrNotFound when nothing
// has been persisted and a *LoadError when the record is unreadable or
// malformed.
func (s *Store) Read(ctx context.Context) (Settings, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, &LoadError{Location: s.backend.Location(), Cause: err}
	}

	parsed, err := Parse(data)
	if err != nil {
		return Settings{}, &LoadError{Location: s.backend.Location(), Cause: err}
	}
	return parsed, nil
}

// Load returns the settings to run with and never fails.
//
// A missing record yields the local fallback when a local endpoint is set,
// and empty settings otherwise. An unreadable or malformed record is logged
// and yields empty settings. The fallback applies only when no record
// exists: a stored record that disables every provider is used as is.
func (s *Store) Load(ctx context.Context) (Settings, Source) {
	loaded, err := s.Read(ctx)
	switch {
	case err == nil:
		s.logger.Debug("settings loaded",
			"location", s.backend.Location(),
			"active_provider", loaded.ActiveProvider,
		)
		return loaded, SourceStored

	case errors.Is(err, ErrNotFound):
		if s.localEndpoint != "" {
			s.logger.Info("no settings persisted, using local endpoint",
				"location", s.backend.Location(),
				"endpoint", s.localEndpoint,
			)
			return LocalFallback(), SourceLocalFallback
		}
		s.logger.Info("no settings persisted and no local endpoint configured",
			"location", s.backend.Location(),
		)
		return New(), SourceEmpty

	default:
		s.logger.Error("failed to load settings, continuing with empty settings",
			"location", s.backend.Location(),
			"error", err,
		)
		return New(), SourceDegraded
	}
}

// Save validates settings and replaces the stored record in full.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return &PersistenceError{Location: s.backend.Location(), Op: "encode", Cause: err}
	}
	data = append(data, '\n')

	if err := s.backend.Write(ctx, data); err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return perr
		}
		return &PersistenceError{Location: s.backend.Location(), Op: "write", Cause: err}
	}

	s.logger.Info("settings saved",
		"location", s.backend.Location(),
		"active_provider", settings.ActiveProvider,
	)
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("failed to close settings backend: %w", err)
	}
	return nil
}
