package main

import (
	"fmt"
	"os"

	"ragstack/llmrouter/pkg/cli"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "llmrouter",
	Short: "llmrouter - LLM provider router",
	Long: `llmrouter dispatches generation requests to exactly one active LLM
provider chosen by persisted settings.

Supported providers:
  - openai  OpenAI chat completions
  - claude  Anthropic Messages API
  - gemini  Google Gemini
  - local   any OpenAI-compatible server (LOCAL_LLM_URL)

Settings can be changed at runtime through the HTTP API or the settings
command; the router rebuilds its clients without a restart.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
