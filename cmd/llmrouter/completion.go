package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for llmrouter.

To load completions:

Bash:
  $ source <(llmrouter completion bash)
  # To load permanently:
  $ llmrouter completion bash > /etc/bash_completion.d/llmrouter

Zsh:
  $ llmrouter completion zsh > "${fpath[1]}/_llmrouter"
  $ compinit

Fish:
  $ llmrouter completion fish | source
  # To load permanently:
  $ llmrouter completion fish > ~/.config/fish/completions/llmrouter.fish

PowerShell:
  PS> llmrouter completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
