// Package config provides the application configuration of the router service.
//
// Configuration is loaded from an optional YAML file, completed with
// defaults and overridden by environment variables:
//
//	cfg, err := config.Load("llmrouter.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LLMROUTER_SECTION_FIELD.
// For example:
//
//   - LLMROUTER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - LLMROUTER_SETTINGS_BACKEND overrides settings.backend
//   - LLMROUTER_PROVIDERS_OPENAI_TIMEOUT overrides providers.openai.timeout
//   - LLMROUTER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// LOCAL_LLM_URL sets settings.local_llm_url without the prefix. DEBUG is read
// by the router itself when router.debug is empty.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Provider credentials and the active provider are not part of this
// configuration. They are runtime settings managed by pkg/settings.
package config
