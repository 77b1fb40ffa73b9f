// Package router dispatches text generation to the active LLM provider.
//
// A Router owns one settings/registry pair. Settings are loaded from a
// settings.Store when the Router is created and after every UpdateSettings
// or Reload, and the provider registry is rebuilt from scratch each time;
// the new pair replaces the old one atomically.
//
//	store := settings.NewStore(backend, settings.WithLocalEndpoint(os.Getenv("LOCAL_LLM_URL")))
//	rt, err := router.New(ctx, store, router.WithMetrics(collector))
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	text, err := rt.Generate(ctx, "What changed in the last release?", retrieved)
//	if errors.Is(err, router.ErrNoActiveProvider) {
//	    // nothing is configured
//	}
//
// Transport failures are not returned from Generate. They are reported in
// the text, prefixed with "Error: ".
package router
