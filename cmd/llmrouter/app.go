package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/providerfactory"
	"ragstack/llmrouter/pkg/router"
	"ragstack/llmrouter/pkg/settings"
	"ragstack/llmrouter/pkg/telemetry/logging"
	"ragstack/llmrouter/pkg/telemetry/metrics"
	"ragstack/llmrouter/pkg/telemetry/tracing"
)

// loadConfig loads the application config named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogger builds the logger and installs it as the slog default.
func setupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Telemetry.Logging, w)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}

// openBackend opens the settings backend selected by cfg.
func openBackend(ctx context.Context, cfg config.SettingsConfig) (settings.Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return settings.NewFileBackend(cfg.Path), nil
	case config.BackendSQLite:
		return settings.NewSQLiteBackend(settings.SQLiteBackendConfig{
			DBPath:      cfg.SQLite.Path,
			Key:         cfg.SQLite.Key,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	case config.BackendRedis:
		return settings.NewRedisBackend(ctx, settings.RedisBackendConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
	default:
		return nil, cli.NewConfigError("settings.backend", fmt.Sprintf("unsupported backend %q", cfg.Backend))
	}
}

// openStore opens the settings store. The caller closes it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*settings.Store, error) {
	backend, err := openBackend(ctx, cfg.Settings)
	if err != nil {
		return nil, err
	}
	return settings.NewStore(backend,
		settings.WithLocalEndpoint(cfg.Settings.LocalLLMURL),
		settings.WithLogger(logger.With("component", "settings")),
	), nil
}

// routerOptions translates cfg into router options. extra is applied last.
func routerOptions(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, extra ...router.Option) []router.Option {
	opts := []router.Option{
		router.WithLogger(logger.With("component", "router")),
		router.WithMetrics(collector),
		router.WithFactoryOptions(providerfactory.Options{
			LocalEndpoint: cfg.Settings.LocalLLMURL,
			Transport:     providerfactory.TransportFromConfig(cfg.Providers),
			Logger:        logger.With("component", "providerfactory"),
		}),
	}
	if debug := cfg.Router.DebugOverride(); debug != nil {
		opts = append(opts, router.WithDebug(*debug))
	}
	return append(opts, extra...)
}

// newRouter opens the store and builds a router on it. The returned
// cleanup closes both.
func newRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, extra ...router.Option) (*router.Router, *settings.Store, func(), error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	r, err := router.New(ctx, store, routerOptions(cfg, logger, collector, extra...)...)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := r.Close(); err != nil {
			logger.Warn("failed to close router", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("failed to close settings store", "error", err)
		}
	}
	return r, store, cleanup, nil
}

// shutdownTracer flushes pending spans, waiting at most timeout.
func shutdownTracer(tracer *tracing.Tracer, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := tracer.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}
