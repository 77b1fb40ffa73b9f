package config

import (
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Settings.Backend != BackendFile || cfg.Settings.Path != DefaultSettingsPath {
		t.Errorf("Settings = %+v", cfg.Settings)
	}
	if cfg.Providers.OpenAI.MaxRetries != DefaultProviderMaxRetries {
		t.Errorf("OpenAI.MaxRetries = %d", cfg.Providers.OpenAI.MaxRetries)
	}
	if cfg.Providers.Local.MaxRetries != DefaultLocalProviderMaxRetries {
		t.Errorf("Local.MaxRetries = %d", cfg.Providers.Local.MaxRetries)
	}
	if !cfg.Telemetry.Logging.RedactSecrets || !cfg.Telemetry.Metrics.Enabled {
		t.Error("boolean defaults not applied")
	}
	if cfg.Telemetry.Health.Schedule != DefaultHealthSchedule {
		t.Errorf("Health.Schedule = %q", cfg.Telemetry.Health.Schedule)
	}
	if cfg.Router.DebugOverride() != nil {
		t.Error("debug should be left to the environment by default")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	before := *cfg
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(before, *cfg) {
		t.Errorf("ApplyDefaults changed an already defaulted config:\n%+v\n%+v", before, *cfg)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = ":9000"
	cfg.Providers.Gemini.Timeout = 5
	cfg.Telemetry.Metrics.DurationBuckets = []float64{1, 2}

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != ":9000" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Gemini.Timeout != 5 {
		t.Errorf("Gemini.Timeout = %v", cfg.Providers.Gemini.Timeout)
	}
	if !reflect.DeepEqual(cfg.Telemetry.Metrics.DurationBuckets, []float64{1, 2}) {
		t.Errorf("DurationBuckets = %v", cfg.Telemetry.Metrics.DurationBuckets)
	}
	if cfg.Providers.OpenAI.Timeout != DefaultProviderTimeout {
		t.Errorf("OpenAI.Timeout = %v", cfg.Providers.OpenAI.Timeout)
	}
}

func TestProvidersConfig_Get(t *testing.T) {
	cfg := Default()
	cfg.Providers.Claude.BaseURL = "https://claude.internal"

	p, ok := cfg.Providers.Get("claude")
	if !ok || p.BaseURL != "https://claude.internal" {
		t.Errorf("Get(claude) = %+v, %v", p, ok)
	}
	if _, ok := cfg.Providers.Get("mistral"); ok {
		t.Error("Get(mistral) should miss")
	}
}
