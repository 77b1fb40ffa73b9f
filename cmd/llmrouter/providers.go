package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"ragstack/llmrouter/pkg/cli"
	"ragstack/llmrouter/pkg/providers"

	"github.com/spf13/cobra"
)

var providersFlags struct {
	format string
	check  bool
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the active and available providers",
	Long: `List the active provider, the providers that have a client and the
reason any enabled provider could not be built.

With --check every available client is probed once.

Examples:
  llmrouter providers
  llmrouter providers --check --format json`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVarP(&providersFlags.format, "format", "f", "text", "output format: text, json, yaml")
	providersCmd.Flags().BoolVar(&providersFlags.check, "check", false, "probe every available provider")
}

// providersReport is the output of the providers command.
type providersReport struct {
	Active    string            `json:"active" yaml:"active"`
	Available []string          `json:"available" yaml:"available"`
	Failures  map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`
	Health    map[string]string `json:"health,omitempty" yaml:"health,omitempty"`
	Source    string            `json:"source" yaml:"source"`
}

func (p providersReport) WriteText(w io.Writer) error {
	active := p.Active
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(w, "Active provider: %s\n", active)
	fmt.Fprintf(w, "Settings source: %s\n", p.Source)

	if len(p.Available) == 0 {
		fmt.Fprintln(w, "Available:       (none)")
	} else {
		fmt.Fprintf(w, "Available:       %s\n", strings.Join(p.Available, ", "))
	}

	for _, id := range sortedKeys(p.Failures) {
		fmt.Fprintf(w, "✗ %s: %s\n", id, p.Failures[id])
	}
	for _, id := range sortedKeys(p.Health) {
		if status := p.Health[id]; status == "ok" {
			fmt.Fprintf(w, "✓ %s healthy\n", id)
		} else {
			fmt.Fprintf(w, "✗ %s unhealthy: %s\n", id, status)
		}
	}
	return nil
}

func runProviders(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(providersFlags.format)
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
	r, _, cleanup, err := newRouter(ctx, cfg, logger, nil)
	if err != nil {
		return cli.NewCommandError("providers", err)
	}
	defer cleanup()

	report := providersReport{
		Active:    r.ActiveProvider().String(),
		Available: idStrings(r.AvailableProviders()),
		Source:    string(r.Source()),
	}
	if failures := r.Failures(); len(failures) > 0 {
		report.Failures = make(map[string]string, len(failures))
		for id, err := range failures {
			report.Failures[id.String()] = err.Error()
		}
	}
	if providersFlags.check {
		report.Health = make(map[string]string)
		for id, err := range r.CheckHealth(ctx) {
			report.Health[id.String()] = "ok"
			if err != nil {
				report.Health[id.String()] = err.Error()
			}
		}
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)
}

func idStrings(ids []providers.ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
