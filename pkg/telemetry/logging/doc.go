// Package logging builds the service's slog logger.
//
// The handler returned by New adds request-scoped attributes (request_id,
// provider) from the context, and masks provider credentials such as
// OpenAI and Anthropic keys, Google API keys and bearer tokens wherever
// they appear in messages or attributes.
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//	logger.InfoContext(logging.WithRequestID(ctx, id), "request served")
package logging
