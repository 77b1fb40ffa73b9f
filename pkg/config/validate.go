package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"ragstack/llmrouter/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateSettings(&cfg.Settings)...)
	errs = append(errs, validateRouter(&cfg.Router)...)
	errs = append(errs, validateProviders(&cfg.Providers)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, port, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: %v", cfg.ListenAddress, err),
		})
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid port %q", port),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must not be negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must not be negative"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "must not be negative"})
	}

	if cfg.CORS.Enabled {
		if len(cfg.CORS.AllowedOrigins) == 0 {
			errs = append(errs, FieldError{Field: "server.cors.allowed_origins", Message: "at least one origin is required when CORS is enabled"})
		}
		if cfg.CORS.AllowCredentials {
			for _, origin := range cfg.CORS.AllowedOrigins {
				if origin == "*" {
					errs = append(errs, FieldError{Field: "server.cors.allowed_origins", Message: "wildcard origin cannot be combined with allow_credentials"})
					break
				}
			}
		}
	}
	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "server.cors.max_age", Message: "must not be negative"})
	}

	for i, token := range cfg.Auth.AdminTokens {
		field := fmt.Sprintf("server.auth.admin_tokens[%d]", i)
		switch {
		case strings.TrimSpace(token) == "":
			errs = append(errs, FieldError{Field: field, Message: "token must not be empty"})
		case strings.ContainsAny(token, " \t\r\n"):
			errs = append(errs, FieldError{Field: field, Message: "token must not contain whitespace"})
		}
	}

	return errs
}

func validateSettings(cfg *SettingsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case BackendFile:
		if cfg.Path == "" {
			errs = append(errs, FieldError{Field: "settings.path", Message: "path is required for the file backend"})
		}
	case BackendSQLite:
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "settings.sqlite.path", Message: "path is required for the sqlite backend"})
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			errs = append(errs, FieldError{Field: "settings.redis.addr", Message: "address is required for the redis backend"})
		}
		if cfg.Redis.DB < 0 {
			errs = append(errs, FieldError{Field: "settings.redis.db", Message: "must not be negative"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "settings.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'file', 'sqlite', or 'redis'", cfg.Backend),
		})
	}

	if cfg.Watch && cfg.Backend != BackendFile {
		errs = append(errs, FieldError{Field: "settings.watch", Message: "watching is only supported by the file backend"})
	}

	if cfg.LocalLLMURL != "" {
		if msg := checkHTTPURL(cfg.LocalLLMURL); msg != "" {
			errs = append(errs, FieldError{Field: "settings.local_llm_url", Message: msg})
		}
	}

	return errs
}

func validateRouter(cfg *RouterConfig) []FieldError {
	if cfg.Debug == "" {
		return nil
	}
	if _, err := strconv.ParseBool(cfg.Debug); err != nil {
		return []FieldError{{Field: "router.debug", Message: fmt.Sprintf("invalid boolean %q", cfg.Debug)}}
	}
	return nil
}

func validateProviders(cfg *ProvidersConfig) []FieldError {
	var errs []FieldError

	for _, id := range providers.AllProviderIDs() {
		p, _ := cfg.Get(id)
		prefix := "providers." + string(id)

		if p.BaseURL != "" {
			if msg := checkHTTPURL(p.BaseURL); msg != "" {
				errs = append(errs, FieldError{Field: prefix + ".base_url", Message: msg})
			}
		}
		if p.Timeout < 0 {
			errs = append(errs, FieldError{Field: prefix + ".timeout", Message: "must not be negative"})
		}
		if p.MaxRetries < -1 {
			errs = append(errs, FieldError{Field: prefix + ".max_retries", Message: "must be -1 (disabled) or greater"})
		}
		if p.MaxTokens < 0 {
			errs = append(errs, FieldError{Field: prefix + ".max_tokens", Message: "must not be negative"})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: "pattern is required"})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	if cfg.Health.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Health.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Health.Schedule, err),
			})
		}
	}
	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.health.check_timeout", Message: "must not be negative"})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0.0 and 1.0"})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
	}

	return errs
}

func checkHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "URL must use http or https"
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}
