package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"ragstack/llmrouter/pkg/providers"
)

// JSON keys of the persisted record.
const (
	keyActiveProvider = "active_provider"
	keyUseLocalLLM    = "use_local_llm"
)

// ProviderConfig is the persisted configuration of a single provider.
type ProviderConfig struct {
	APIKey  string `json:"api_key,omitempty"`
	Model   string `json:"model,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// ModelOrDefault returns the configured model, or id's default model.
func (c ProviderConfig) ModelOrDefault(id providers.ProviderID) string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return id.DefaultModel()
}

// Settings is the durable router configuration.
//
// ActiveProvider may name a provider that has no usable client; that state is
// valid and only surfaces when a generation request is made.
type Settings struct {
	ActiveProvider providers.ProviderID
	UseLocalLLM    bool
	Providers      map[providers.ProviderID]ProviderConfig
}

// New returns empty settings: no active provider and no configured providers.
func New() Settings {
	return Settings{Providers: make(map[providers.ProviderID]ProviderConfig)}
}

// LocalFallback returns the implicit configuration used when no record has
// been persisted but a local endpoint is available.
func LocalFallback() Settings {
	s := New()
	s.ActiveProvider = providers.Local
	s.UseLocalLLM = true
	return s
}

// Provider returns the configuration stored for id.
func (s Settings) Provider(id providers.ProviderID) (ProviderConfig, bool) {
	cfg, ok := s.Providers[id]
	return cfg, ok
}

// Enabled reports whether id should get a client. Remote providers need a
// non-empty API key. The local provider needs both an endpoint and the
// use_local_llm opt-in.
func (s Settings) Enabled(id providers.ProviderID, localEndpoint string) bool {
	if id == providers.Local {
		return s.UseLocalLLM && strings.TrimSpace(localEndpoint) != ""
	}
	cfg, ok := s.Providers[id]
	return ok && strings.TrimSpace(cfg.APIKey) != ""
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Providers = make(map[providers.ProviderID]ProviderConfig, len(s.Providers))
	for id, cfg := range s.Providers {
		out.Providers[id] = cfg
	}
	return out
}

// Redacted returns a copy of s with API keys masked, for display.
func (s Settings) Redacted() Settings {
	out := s.Clone()
	for id, cfg := range out.Providers {
		cfg.APIKey = MaskSecret(cfg.APIKey)
		out.Providers[id] = cfg
	}
	return out
}

// Equal reports whether s and other describe the same configuration.
// A nil provider map equals an empty one.
func (s Settings) Equal(other Settings) bool {
	if s.ActiveProvider != other.ActiveProvider || s.UseLocalLLM != other.UseLocalLLM {
		return false
	}
	if len(s.Providers) != len(other.Providers) {
		return false
	}
	for id, cfg := range s.Providers {
		if o, ok := other.Providers[id]; !ok || o != cfg {
			return false
		}
	}
	return true
}

// MaskSecret keeps the first and last four characters of long secrets.
func MaskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
}

// MarshalJSON encodes the flat persisted shape. active_provider is always
// written so an empty value survives a round trip.
func (s Settings) MarshalJSON() ([]byte, error) {
	record := make(map[string]interface{}, len(s.Providers)+2)
	record[keyActiveProvider] = string(s.ActiveProvider)
	record[keyUseLocalLLM] = s.UseLocalLLM
	for id, cfg := range s.Providers {
		record[string(id)] = cfg
	}
	return json.Marshal(record)
}

// UnmarshalJSON decodes the persisted shape via Parse.
func (s *Settings) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse decodes an untrusted settings record. The top level must be an
// object. active_provider must be a string naming a supported provider or be
// empty; when the key is absent it defaults to the local provider. Provider
// sub-objects must be objects with string fields. Unknown keys are ignored.
func Parse(data []byte) (Settings, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("settings must be a JSON object: %w", err)
	}
	if raw == nil {
		return Settings{}, fmt.Errorf("settings must be a JSON object, got null")
	}

	s := New()
	verr := &ValidationError{}

	if value, ok := raw[keyActiveProvider]; ok {
		var active *string
		if err := json.Unmarshal(value, &active); err != nil {
			verr.Add(keyActiveProvider, "must be a string")
		} else if active != nil {
			id := providers.ProviderID(strings.TrimSpace(*active))
			if id != "" && !id.Valid() {
				verr.Add(keyActiveProvider, fmt.Sprintf("unknown provider %q", *active))
			} else {
				s.ActiveProvider = id
			}
		}
	} else {
		s.ActiveProvider = providers.Local
	}

	if value, ok := raw[keyUseLocalLLM]; ok {
		var useLocal *bool
		if err := json.Unmarshal(value, &useLocal); err != nil {
			verr.Add(keyUseLocalLLM, "must be a boolean")
		} else if useLocal != nil {
			s.UseLocalLLM = *useLocal
		}
	}

	for _, id := range providers.AllProviderIDs() {
		value, ok := raw[string(id)]
		if !ok || isNull(value) {
			continue
		}
		var cfg ProviderConfig
		if err := json.Unmarshal(value, &cfg); err != nil {
			verr.Add(string(id), "must be an object with string fields api_key, model, base_url")
			continue
		}
		s.Providers[id] = cfg
	}

	if verr.HasErrors() {
		return Settings{}, verr
	}
	return s, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
