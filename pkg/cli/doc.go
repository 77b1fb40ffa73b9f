/*
Package cli provides helpers shared by the llmrouter commands.

Output Formatting:

Commands accept --format text|json|yaml and render results through a
Formatter:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}

Results that implement TextWriter control their own text rendering.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
