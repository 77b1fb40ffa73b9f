package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/providers"
	"ragstack/llmrouter/pkg/settings"

	"github.com/spf13/cobra"
)

var settingsFlags struct {
	format string
	file   string
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show, replace or validate the persisted router settings",
	Long: `Show, replace or validate the persisted router settings.

The settings record selects the active provider and holds per-provider API
keys, models and base URLs:

  {
    "active_provider": "openai",
    "use_local_llm": false,
    "openai": {"api_key": "sk-...", "model": "gpt-4o"},
    "claude": {"api_key": "sk-ant-..."}
  }

A running server watching the file backend picks up changes made here.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings with API keys masked",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the settings record with the contents of a file",
	Long: `Replace the settings record with the contents of a JSON file.

The record is validated first and replaced in full; use "-" to read it from
standard input.

Examples:
  llmrouter settings set --file llm_settings.json
  echo '{"active_provider":"local","use_local_llm":true}' | llmrouter settings set --file -`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a settings file without saving it",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsValidateCmd)

	settingsShowCmd.Flags().StringVarP(&settingsFlags.format, "format", "f", "text", "output format: text, json, yaml")

	for _, cmd := range []*cobra.Command{settingsSetCmd, settingsValidateCmd} {
		cmd.Flags().StringVar(&settingsFlags.file, "file", "", "settings JSON file (- for stdin)")
		_ = cmd.MarkFlagRequired("file")
	}
}

// settingsView is the output of settings show.
type settingsView struct {
	Location string                 `json:"location" yaml:"location"`
	Source   string                 `json:"source" yaml:"source"`
	Settings map[string]interface{} `json:"settings" yaml:"settings"`
}

func (v settingsView) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Location: %s\n", v.Location)
	fmt.Fprintf(w, "Source:   %s\n", v.Source)
	data, err := json.MarshalIndent(v.Settings, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(settingsFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("settings show", err)
	}
	defer store.Close()

	loaded, source := store.Load(ctx)

	record, err := toMap(loaded.Redacted())
	if err != nil {
		return cli.NewCommandError("settings show", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), settingsView{
		Location: store.Location(),
		Source:   string(source),
		Settings: record,
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := readSettingsFile(cmd, settingsFlags.file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("settings set", err)
	}
	defer store.Close()

	if err := store.Save(ctx, s); err != nil {
		var verr *settings.ValidationError
		if errors.As(err, &verr) {
			return cli.NewConfigError(settingsFlags.file, verr.Error())
		}
		return cli.NewCommandError("settings set", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Settings saved to %s\n", store.Location())
	printEnabled(out, s, cfg.Settings.LocalLLMURL)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, args []string) error {
	s, err := readSettingsFile(cmd, settingsFlags.file)
	if err != nil {
		return err
	}
	if err := settings.Validate(s); err != nil {
		return cli.NewConfigError(settingsFlags.file, err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Settings valid")
	printEnabled(out, s, cfg.Settings.LocalLLMURL)
	return nil
}

// readSettingsFile reads and parses a settings record from path, or from
// stdin when path is "-".
func readSettingsFile(cmd *cobra.Command, path string) (settings.Settings, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return settings.Settings{}, cli.NewConfigError("file", fmt.Sprintf("failed to read %s: %v", path, err))
	}

	s, err := settings.Parse(data)
	if err != nil {
		return settings.Settings{}, cli.NewConfigError(path, err.Error())
	}
	return s, nil
}

func printEnabled(w io.Writer, s settings.Settings, localEndpoint string) {
	active := s.ActiveProvider.String()
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(w, "  active provider: %s\n", active)

	for _, id := range providers.AllProviderIDs() {
		if s.Enabled(id, localEndpoint) {
			fmt.Fprintf(w, "  ✓ %s enabled (model %s)\n", id, modelFor(s, id))
		}
	}
	if s.ActiveProvider != "" && !s.Enabled(s.ActiveProvider, localEndpoint) {
		fmt.Fprintf(w, "  ! active provider %s is not enabled; queries will fail outside debug mode\n", s.ActiveProvider)
	}
}

func modelFor(s settings.Settings, id providers.ProviderID) string {
	cfg, _ := s.Provider(id)
	return cfg.ModelOrDefault(id)
}

func toMap(s settings.Settings) (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
