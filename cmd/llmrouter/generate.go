package main

import (
	"fmt"
	"strings"

	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/router"

	"github.com/spf13/cobra"
)

var generateFlags struct {
	context string
	debug   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate an answer with the active provider",
	Long: `Send one prompt to the active provider and print the answer.

A provider failure is printed as "Error: <cause>", exactly as the API
returns it. Without a usable provider the command fails unless debug
mode is on, in which case a placeholder answer is printed.

Examples:
  llmrouter generate "What is Go?"
  llmrouter generate "Summarize" --context "$(cat notes.txt)"
  llmrouter generate "ping" --debug`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFlags.context, "context", "", "supplementary context for the prompt")
	generateCmd.Flags().BoolVar(&generateFlags.debug, "debug", false, "answer with a placeholder when no provider is usable (overrides DEBUG)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var extra []router.Option
	if cmd.Flags().Changed("debug") {
		extra = append(extra, router.WithDebug(generateFlags.debug))
	}

	ctx := cmd.Context()
	r, _, cleanup, err := newRouter(ctx, cfg, logger, nil, extra...)
	if err != nil {
		return cli.NewCommandError("generate", err)
	}
	defer cleanup()

	text, err := r.Generate(ctx, strings.Join(args, " "), generateFlags.context)
	if err != nil {
		return cli.NewCommandError("generate", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
