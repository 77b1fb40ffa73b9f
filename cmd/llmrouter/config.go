package main

import (
	"fmt"

	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/config"
	"ragstack/llmrouter/pkg/settings"

	"github.com/spf13/cobra"
)

var configFlags struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the application configuration",
	Long: `Inspect the application configuration.

Configuration is assembled from built-in defaults, the optional YAML file given
with --config, and LLMROUTER_* environment variables (plus LOCAL_LLM_URL), in
that order.`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Configuration valid")
		fmt.Fprintf(out, "  listen address:   %s\n", cfg.Server.ListenAddress)
		fmt.Fprintf(out, "  settings backend: %s\n", cfg.Settings.Backend)
		if cfg.Settings.LocalLLMURL != "" {
			fmt.Fprintf(out, "  local endpoint:   %s\n", cfg.Settings.LocalLLMURL)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseFormat(configFlags.format)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), redactConfig(cfg))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configShowCmd)

	configShowCmd.Flags().StringVarP(&configFlags.format, "format", "f", "yaml", "output format: yaml, json")
}

// redactConfig returns a copy of cfg with secrets masked.
func redactConfig(cfg *config.Config) *config.Config {
	out := *cfg
	if out.Settings.Redis.Password != "" {
		out.Settings.Redis.Password = settings.MaskSecret(out.Settings.Redis.Password)
	}
	return &out
}
