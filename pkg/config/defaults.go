package config

import (
	"time"

	"ragstack/llmrouter/pkg/settings"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 1048576 // 1MB
	DefaultCORSMaxAge      = 3600

	// Settings defaults
	DefaultSettingsBackend   = BackendFile
	DefaultSettingsPath      = settings.DefaultPath
	DefaultWatchDebounce     = 250 * time.Millisecond
	DefaultSQLitePath        = "/data/settings/llm_settings.db"
	DefaultSQLiteKey         = settings.DefaultSQLiteKey
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisKey          = settings.DefaultRedisKey

	// Provider defaults
	DefaultProviderTimeout         = 60 * time.Second
	DefaultProviderMaxRetries      = 2
	DefaultLocalProviderMaxRetries = 1

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultRedactSecrets      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "llmrouter"
	DefaultMetricsSubsystem   = "router"
	DefaultHealthSchedule     = "@every 1m"
	DefaultHealthCheckTimeout = 5 * time.Second

	// Tracing defaults
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingServiceName = "llmrouter"
)

// DefaultDurationBuckets covers LLM generation latencies.
var DefaultDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

// Default returns a configuration with every default applied.
// Load decodes YAML on top of it, so keys absent from the file keep these values.
func Default() *Config {
	cfg := &Config{
		Settings: SettingsConfig{
			Backend: DefaultSettingsBackend,
		},
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{MaxRetries: DefaultProviderMaxRetries},
			Claude: ProviderConfig{MaxRetries: DefaultProviderMaxRetries},
			Gemini: ProviderConfig{MaxRetries: DefaultProviderMaxRetries},
			Local:  ProviderConfig{MaxRetries: DefaultLocalProviderMaxRetries},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultRedactSecrets},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Health:  HealthConfig{Schedule: DefaultHealthSchedule},
			Tracing: TracingConfig{SampleRatio: DefaultTracingSampleRatio},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// It is idempotent. Booleans and retry counts are defaulted by Default
// instead, since their zero value is meaningful.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cfg.Server.CORS.ExposedHeaders) == 0 {
		cfg.Server.CORS.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Settings defaults
	if cfg.Settings.Backend == "" {
		cfg.Settings.Backend = DefaultSettingsBackend
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = DefaultSettingsPath
	}
	if cfg.Settings.WatchDebounce == 0 {
		cfg.Settings.WatchDebounce = DefaultWatchDebounce
	}
	if cfg.Settings.SQLite.Path == "" {
		cfg.Settings.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Settings.SQLite.Key == "" {
		cfg.Settings.SQLite.Key = DefaultSQLiteKey
	}
	if cfg.Settings.SQLite.BusyTimeout == 0 {
		cfg.Settings.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Settings.Redis.Addr == "" {
		cfg.Settings.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Settings.Redis.Key == "" {
		cfg.Settings.Redis.Key = DefaultRedisKey
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}

	// Provider defaults
	for _, p := range []*ProviderConfig{&cfg.Providers.OpenAI, &cfg.Providers.Claude, &cfg.Providers.Gemini, &cfg.Providers.Local} {
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
