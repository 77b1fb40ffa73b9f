// Package settings holds the persisted router configuration: which provider
// is active, whether the local backend is opted in, and the per-provider
// credentials and model choices.
//
// A Store reads and writes the record through a Backend (a JSON file, a
// SQLite key-value table or a Redis key). Reading is forgiving: a missing
// record falls back to the LOCAL_LLM_URL endpoint or to empty settings, and a
// malformed record is logged and replaced by empty settings. Writing is
// strict: validation failures surface as *ValidationError and storage
// failures as *PersistenceError.
//
// Example:
//
//	backend := settings.NewFileBackend("/data/settings/llm_settings.json")
//	store := settings.NewStore(backend, settings.WithLocalEndpoint(os.Getenv("LOCAL_LLM_URL")))
//	s, source := store.Load(ctx)
package settings
