package config

import (
	"strconv"
	"time"

	"ragstack/llmrouter/pkg/providers"
)

// Config is the root application configuration of the router service.
//
// It does not hold provider credentials or the active provider: those are
// runtime settings persisted through pkg/settings and changed via the API.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`

	// Settings selects where router settings are persisted.
	Settings SettingsConfig `yaml:"settings" envPrefix:"SETTINGS_"`

	// Router contains dispatch behaviour.
	Router RouterConfig `yaml:"router" envPrefix:"ROUTER_"`

	// Providers contains per-provider transport tuning.
	Providers ProvidersConfig `yaml:"providers" envPrefix:"PROVIDERS_"`

	// Telemetry contains logging, metrics and health configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address" env:"LISTEN_ADDRESS"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`

	// WriteTimeout must exceed the slowest provider call, since /api/query
	// waits for generation to finish.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`

	// IdleTimeout is how long keep-alive connections stay open.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`

	// MaxBodyBytes limits request body size.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`

	// CORS configures cross-origin access for browser clients.
	CORS CORSConfig `yaml:"cors" envPrefix:"CORS_"`

	// Auth guards settings writes.
	Auth AuthConfig `yaml:"auth" envPrefix:"AUTH_"`
}

// AuthConfig contains API authentication configuration.
type AuthConfig struct {
	// AdminTokens are the bearer tokens accepted for settings writes.
	// An empty list leaves settings writes open.
	AdminTokens []string `yaml:"admin_tokens" env:"ADMIN_TOKENS" envSeparator:","`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// AllowedOrigins lists allowed origins. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// AllowedMethods lists methods allowed in preflight responses.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods" env:"ALLOWED_METHODS" envSeparator:","`

	// AllowedHeaders lists request headers allowed in preflight responses.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers" env:"ALLOWED_HEADERS" envSeparator:","`

	// ExposedHeaders lists response headers readable by the browser.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers" env:"EXPOSED_HEADERS" envSeparator:","`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age" env:"MAX_AGE"`

	// AllowCredentials allows cookies and auth headers on cross-origin requests.
	AllowCredentials bool `yaml:"allow_credentials" env:"ALLOW_CREDENTIALS"`
}

// Settings backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// SettingsConfig selects and configures the settings backend.
type SettingsConfig struct {
	// Backend is one of "file", "sqlite", "redis".
	// Default: "file"
	Backend string `yaml:"backend" env:"BACKEND"`

	// Path is the JSON settings file used by the file backend.
	// Default: "/data/settings/llm_settings.json"
	Path string `yaml:"path" env:"PATH"`

	// LocalLLMURL is the base URL of a local OpenAI-compatible server.
	// The LOCAL_LLM_URL environment variable overrides it.
	LocalLLMURL string `yaml:"local_llm_url"`

	// Watch reloads the router when the settings file changes on disk.
	// Only supported by the file backend.
	// Default: false
	Watch bool `yaml:"watch" env:"WATCH"`

	// WatchDebounce is the quiet period before a change is applied.
	// Default: 250ms
	WatchDebounce time.Duration `yaml:"watch_debounce" env:"WATCH_DEBOUNCE"`

	SQLite SQLiteConfig `yaml:"sqlite" envPrefix:"SQLITE_"`
	Redis  RedisConfig  `yaml:"redis" envPrefix:"REDIS_"`
}

// SQLiteConfig configures the SQLite settings backend.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "/data/settings/llm_settings.db"
	Path string `yaml:"path" env:"PATH"`

	// Key is the row key of the settings record.
	// Default: "llm_settings"
	Key string `yaml:"key" env:"KEY"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// RedisConfig configures the Redis settings backend.
type RedisConfig struct {
	// Addr is the Redis address.
	// Default: "localhost:6379"
	Addr string `yaml:"addr" env:"ADDR"`

	Password string `yaml:"password" env:"PASSWORD"`

	DB int `yaml:"db" env:"DB"`

	// Key holds the settings record.
	// Default: "llmrouter:settings"
	Key string `yaml:"key" env:"KEY"`
}

// RouterConfig contains router behaviour.
type RouterConfig struct {
	// Debug makes Generate return a placeholder instead of failing when no
	// provider is usable. Accepts "true" or "false". When empty, the DEBUG
	// environment variable decides.
	Debug string `yaml:"debug" env:"DEBUG"`
}

// DebugOverride returns the configured debug mode, or nil when it is left
// to the environment.
func (r RouterConfig) DebugOverride() *bool {
	if r.Debug == "" {
		return nil
	}
	v, err := strconv.ParseBool(r.Debug)
	if err != nil {
		return nil
	}
	return &v
}

// ProvidersConfig holds transport tuning for each provider.
type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai" envPrefix:"OPENAI_"`
	Claude ProviderConfig `yaml:"claude" envPrefix:"CLAUDE_"`
	Gemini ProviderConfig `yaml:"gemini" envPrefix:"GEMINI_"`
	Local  ProviderConfig `yaml:"local" envPrefix:"LOCAL_"`
}

// Get returns the configuration for id.
func (p ProvidersConfig) Get(id providers.ProviderID) (ProviderConfig, bool) {
	switch id {
	case providers.OpenAI:
		return p.OpenAI, true
	case providers.Claude:
		return p.Claude, true
	case providers.Gemini:
		return p.Gemini, true
	case providers.Local:
		return p.Local, true
	}
	return ProviderConfig{}, false
}

// ProviderConfig contains transport tuning for a single provider.
// Credentials and models live in the persisted settings, not here.
type ProviderConfig struct {
	// BaseURL overrides the provider's public endpoint, e.g. for a gateway.
	// A base_url stored in the settings record takes precedence.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// Timeout is the maximum duration of a single request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// MaxRetries is the number of retries for transient failures.
	// Set -1 to disable retries.
	// Default: 2 (1 for local)
	MaxRetries int `yaml:"max_retries" env:"MAX_RETRIES"`

	// MaxTokens bounds completion length. 0 uses the adapter default.
	MaxTokens int `yaml:"max_tokens" env:"MAX_TOKENS"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Health  HealthConfig  `yaml:"health" envPrefix:"HEALTH_"`
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`

	// RedactSecrets masks API keys and bearer tokens in log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets" env:"REDACT_SECRETS"`

	// RedactPatterns adds custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Path is the HTTP path of the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" env:"PATH"`

	// Namespace is the metric name prefix.
	// Default: "llmrouter"
	Namespace string `yaml:"namespace" env:"NAMESPACE"`

	// Subsystem is the metric subsystem name.
	// Default: "router"
	Subsystem string `yaml:"subsystem" env:"SUBSYSTEM"`

	// DurationBuckets defines histogram buckets for generation latency (seconds).
	// Default: [0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// Schedule is the cron schedule of the background provider probe.
	// An empty schedule disables probing.
	// Default: "@every 1m"
	Schedule string `yaml:"schedule" env:"SCHEDULE"`

	// CheckTimeout bounds a single provider probe.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout" env:"CHECK_TIMEOUT"`

	// RequireProvider makes readiness fail when no provider is available.
	// Default: false
	RequireProvider bool `yaml:"require_provider" env:"REQUIRE_PROVIDER"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler" env:"SAMPLER"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// Timeout bounds a single export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// ServiceName is the service.name resource attribute.
	// Default: "llmrouter"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}
