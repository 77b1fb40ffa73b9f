package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mock "ragstack/llmrouter/internal/providers"
	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/settings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args and returns stdout.
// Flag values left over from earlier runs are reset first.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// setupEnv points the settings store at a file in a temp dir and clears
// variables that would leak from the host environment.
func setupEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "llm_settings.json")
	t.Setenv("LLMROUTER_SETTINGS_PATH", path)
	t.Setenv("LLMROUTER_SETTINGS_BACKEND", "file")
	t.Setenv("LOCAL_LLM_URL", "")
	t.Setenv("DEBUG", "")
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestVersionCommand(t *testing.T) {
	orig := Version
	Version = "0.1.0-test"
	defer func() { Version = orig }()

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"llmrouter 0.1.0-test", "Git Commit:", "Go Version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := executeCommand(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "llmrouter") {
		t.Error("bash completion should mention llmrouter")
	}

	if _, err := executeCommand(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestSettingsValidate(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantOut  string
		wantCode int
	}{
		{
			name:    "valid",
			content: `{"active_provider":"claude","claude":{"api_key":"sk-ant-123"}}`,
			wantOut: "claude enabled",
		},
		{
			name:    "active provider not enabled",
			content: `{"active_provider":"openai"}`,
			wantOut: "is not enabled",
		},
		{
			name:     "unknown provider",
			content:  `{"active_provider":"bard"}`,
			wantErr:  true,
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "not json",
			content:  `{not json`,
			wantErr:  true,
			wantCode: cli.ExitConfigError,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "settings"+string(rune('a'+i))+".json")
			writeFile(t, path, tt.content)

			out, err := executeCommand(t, "settings", "validate", "--file", path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if code := cli.ExitCode(err); code != tt.wantCode {
					t.Errorf("exit code = %d, want %d", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestSettingsSetAndShow(t *testing.T) {
	settingsPath := setupEnv(t)

	input := filepath.Join(t.TempDir(), "in.json")
	writeFile(t, input, `{"active_provider":"openai","openai":{"api_key":"sk-abcdefghijkl","model":"gpt-4o-mini"}}`)

	out, err := executeCommand(t, "settings", "set", "--file", input)
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if !strings.Contains(out, "Settings saved") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	stored, err := settings.Parse(data)
	if err != nil {
		t.Fatalf("stored settings invalid: %v", err)
	}
	if cfg, _ := stored.Provider("openai"); cfg.APIKey != "sk-abcdefghijkl" {
		t.Errorf("stored key = %q", cfg.APIKey)
	}

	out, err = executeCommand(t, "settings", "show", "--format", "json")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if strings.Contains(out, "sk-abcdefghijkl") {
		t.Fatal("settings show leaked the API key")
	}

	var view struct {
		Source   string                 `json:"source"`
		Settings map[string]interface{} `json:"settings"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if view.Source != string(settings.SourceStored) {
		t.Errorf("source = %q, want %q", view.Source, settings.SourceStored)
	}
	openai, _ := view.Settings["openai"].(map[string]interface{})
	if openai["api_key"] != "sk-a...ijkl" {
		t.Errorf("masked key = %v, want sk-a...ijkl", openai["api_key"])
	}
}

func TestSettingsSetRejectsInvalid(t *testing.T) {
	settingsPath := setupEnv(t)

	input := filepath.Join(t.TempDir(), "in.json")
	writeFile(t, input, `{"active_provider":"openai","openai":{"api_key":"sk-1","base_url":"ftp://example.com"}}`)

	_, err := executeCommand(t, "settings", "set", "--file", input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %T, want *cli.ConfigError", err)
	}
	if _, err := os.Stat(settingsPath); !os.IsNotExist(err) {
		t.Error("invalid settings should not be written")
	}
}

func TestSettingsShowEmpty(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(t, "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(out, "Source:   "+string(settings.SourceEmpty)) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	setupEnv(t)
	t.Setenv("LLMROUTER_SETTINGS_REDIS_PASSWORD", "supersecretpassword")

	out, err := executeCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = executeCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "supersecretpassword") {
		t.Error("config show leaked the redis password")
	}
	if !strings.Contains(out, "listen_address:") {
		t.Errorf("expected yaml output:\n%s", out)
	}
}

func TestConfigValidateRejectsBadEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("LLMROUTER_SETTINGS_BACKEND", "etcd")

	_, err := executeCommand(t, "config", "validate")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfigError)
	}
}

func TestGenerateDebugPlaceholder(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(t, "generate", "--debug", "hello", "world")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("placeholder should echo the prompt:\n%s", out)
	}
}

func TestGenerateNoProvider(t *testing.T) {
	setupEnv(t)

	_, err := executeCommand(t, "generate", "hello")
	if err == nil {
		t.Fatal("expected error without an active provider")
	}
	if code := cli.ExitCode(err); code != cli.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, cli.ExitFailure)
	}
}

func TestGenerateWithOpenAI(t *testing.T) {
	settingsPath := setupEnv(t)

	server := mock.NewMockServer()
	defer server.Close()
	server.SetResponse("/chat/completions", mock.MockResponse{
		StatusCode: http.StatusOK,
		Body:       mock.MockOpenAIResponse("Go is a programming language.", "gpt-4o"),
	})

	writeFile(t, settingsPath, `{"active_provider":"openai","openai":{"api_key":"sk-test","base_url":"`+server.URL()+`"}}`)

	out, err := executeCommand(t, "generate", "What is Go?", "--context", "docs")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != "Go is a programming language." {
		t.Errorf("output = %q", out)
	}

	req, ok := server.LastRequest()
	if !ok {
		t.Fatal("no request reached the mock server")
	}
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	mock.AssertContains(t, string(req.Body), "What is Go?")
	mock.AssertContains(t, string(req.Body), "docs")
}

func TestProvidersJSON(t *testing.T) {
	settingsPath := setupEnv(t)
	writeFile(t, settingsPath, `{"active_provider":"claude","claude":{"api_key":"sk-ant-1"},"gemini":{"api_key":"g-1"}}`)

	out, err := executeCommand(t, "providers", "--format", "json")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}

	var report providersReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Active != "claude" {
		t.Errorf("active = %q, want claude", report.Active)
	}
	if strings.Join(report.Available, ",") != "claude,gemini" {
		t.Errorf("available = %v, want [claude gemini]", report.Available)
	}
	if report.Source != string(settings.SourceStored) {
		t.Errorf("source = %q", report.Source)
	}
}

func TestProvidersText(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(t, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	if !strings.Contains(out, "Active provider: (none)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestProvidersBadFormat(t *testing.T) {
	setupEnv(t)

	_, err := executeCommand(t, "providers", "--format", "xml")
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfigError)
	}
}
