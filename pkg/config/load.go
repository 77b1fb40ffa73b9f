package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g.
// LLMROUTER_SERVER_LISTEN_ADDRESS or LLMROUTER_PROVIDERS_OPENAI_TIMEOUT.
const EnvPrefix = "LLMROUTER_"

// EnvLocalLLMURL is the legacy, unprefixed local endpoint variable.
const EnvLocalLLMURL = "LOCAL_LLM_URL"

// LoadConfig loads configuration from the YAML file at path on top of the
// defaults and validates it. Environment variables are not consulted.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load builds the runtime configuration:
//
//  1. defaults
//  2. the YAML file at path, if path is not empty
//  3. environment overrides (LLMROUTER_* and LOCAL_LLM_URL)
//  4. validation
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides overwrites cfg fields from the environment. Variables
// that are unset leave the field untouched.
func ApplyEnvOverrides(cfg *Config) error {
	return applyEnv(cfg, os.Environ())
}

func applyEnv(cfg *Config, environ []string) error {
	vars := envMap(environ)

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}

	if v, ok := vars[EnvLocalLLMURL]; ok && strings.TrimSpace(v) != "" {
		cfg.Settings.LocalLLMURL = strings.TrimSpace(v)
	}

	return nil
}

func envMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
