package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ragstack/llmrouter/pkg/api"
	"ragstack/llmrouter/pkg/api/middleware"
	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/router"
	"ragstack/llmrouter/pkg/server"
	"ragstack/llmrouter/pkg/settings"
	"ragstack/llmrouter/pkg/telemetry/health"
	"ragstack/llmrouter/pkg/telemetry/metrics"
	"ragstack/llmrouter/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server loads the persisted settings, builds a client for every enabled
provider and serves the query, settings and provider endpoints together with
health checks and Prometheus metrics.

Examples:
  # Start with defaults and environment overrides
  llmrouter serve

  # Start with a config file
  llmrouter serve --config /etc/llmrouter/config.yaml

  # Override listen address
  llmrouter serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  llmrouter serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer shutdownTracer(tracer, cfg.Telemetry.Tracing.Timeout, logger)

	r, store, cleanup, err := newRouter(ctx, cfg, logger, collector, router.WithTracer(tracer.Tracer()))
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer cleanup()

	if cfg.Settings.Watch {
		stopWatch, err := startWatcher(ctx, cfg.Settings, r, logger)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer stopWatch()
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("providers", health.ProvidersCheck(r, cfg.Telemetry.Health.RequireProvider))

	prober := health.NewProber(r, cfg.Telemetry.Health.Schedule, cfg.Telemetry.Health.CheckTimeout, collector)
	if err := prober.Start(ctx); err != nil {
		return cli.NewConfigError("telemetry.health.schedule", err.Error())
	}
	defer prober.Stop()

	routes := server.Routes{
		API:     newAPIHandler(cfg.Server, r, logger),
		Checker: checker,
		Version: health.NewVersionInfo(Version, GitCommit, BuildDate),
		Tracer:  tracer.Tracer(),
	}
	if cfg.Telemetry.Metrics.Enabled {
		routes.Metrics = collector.Handler()
		routes.MetricsPath = cfg.Telemetry.Metrics.Path
	}

	srv := server.New(cfg.Server, server.NewHandler(cfg.Server, routes, logger), logger)

	printBanner(cmd, cfg, r, store)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// newAPIHandler builds the API handler, guarding settings writes when
// admin tokens are configured.
func newAPIHandler(cfg config.ServerConfig, r *router.Router, logger *slog.Logger) *api.Handler {
	validator := middleware.NewTokenValidator(cfg.Auth.AdminTokens)
	if !validator.Enabled() {
		logger.Warn("no admin tokens configured, settings writes are unauthenticated")
		return api.NewHandler(r, logger)
	}
	return api.NewHandler(r, logger, api.WithSettingsGuard(
		middleware.AuthMiddleware(validator, logger, http.MethodPost),
	))
}

// startWatcher reloads r whenever the settings file changes. Only the file
// backend can be watched.
func startWatcher(ctx context.Context, cfg config.SettingsConfig, r *router.Router, logger *slog.Logger) (func(), error) {
	if cfg.Backend != config.BackendFile {
		logger.Warn("settings watch ignored for non-file backend", "backend", cfg.Backend)
		return func() {}, nil
	}

	watcher, err := settings.NewWatcher(cfg.Path, cfg.WatchDebounce, logger.With("component", "settings_watcher"))
	if err != nil {
		return nil, err
	}

	go func() {
		err := watcher.Watch(ctx, func(ctx context.Context) error {
			return r.Reload(ctx, metrics.TriggerWatch)
		})
		if err != nil {
			logger.Error("settings watcher failed", "error", err)
		}
	}()

	return func() {
		if err := watcher.Stop(); err != nil {
			logger.Warn("failed to stop settings watcher", "error", err)
		}
	}, nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config, r *router.Router, store *settings.Store) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "llmrouter v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "✓ Configuration loaded from %s\n", cfgFile)
	}
	fmt.Fprintf(out, "✓ Settings %s (%s)\n", store.Location(), r.Source())

	active := r.ActiveProvider().String()
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(out, "✓ Active provider: %s, available: %v\n", active, r.AvailableProviders())
	if r.Debug() {
		fmt.Fprintln(out, "! Debug mode: queries without a usable provider get a placeholder answer")
	}

	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "✓ Health endpoint: http://%s%s\n", cfg.Server.ListenAddress, health.ReadinessPath)
	if cfg.Telemetry.Tracing.Enabled {
		fmt.Fprintf(out, "✓ Tracing to %s (sampler %s)\n", cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.Sampler)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
