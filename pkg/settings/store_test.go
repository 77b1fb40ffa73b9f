package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ragstack/llmrouter/pkg/providers"
)

func sampleSettings() Settings {
	return Settings{
		ActiveProvider: providers.OpenAI,
		Providers: map[providers.ProviderID]ProviderConfig{
			providers.OpenAI: {APIKey: "sk-x", Model: "gpt-4o"},
		},
	}
}

func TestStore_Load_MissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "llm_settings.json")

	t.Run("no local endpoint", func(t *testing.T) {
		store := NewStore(NewFileBackend(path))

		got, source := store.Load(ctx)
		if source != SourceEmpty {
			t.Errorf("source = %q, want %q", source, SourceEmpty)
		}
		if got.ActiveProvider != "" {
			t.Errorf("ActiveProvider = %q, want empty", got.ActiveProvider)
		}
		if len(got.Providers) != 0 {
			t.Errorf("Providers = %v, want none", got.Providers)
		}
	})

	t.Run("local endpoint fallback", func(t *testing.T) {
		store := NewStore(NewFileBackend(path), WithLocalEndpoint("http://localhost:11434/v1"))

		got, source := store.Load(ctx)
		if source != SourceLocalFallback {
			t.Errorf("source = %q, want %q", source, SourceLocalFallback)
		}
		if got.ActiveProvider != providers.Local || !got.UseLocalLLM {
			t.Errorf("Load() = %+v, want local active with use_local_llm", got)
		}
	})
}

func TestStore_Load_StoredRecordDisablesFallback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "llm_settings.json")
	if err := os.WriteFile(path, []byte(`{"active_provider":"","use_local_llm":false}`), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(NewFileBackend(path), WithLocalEndpoint("http://localhost:11434/v1"))
	got, source := store.Load(ctx)

	if source != SourceStored {
		t.Errorf("source = %q, want %q", source, SourceStored)
	}
	if got.ActiveProvider != "" || got.UseLocalLLM {
		t.Errorf("Load() = %+v, want the stored record unchanged", got)
	}
}

func TestStore_Load_MalformedDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"invalid json":     `{"active_provider": "openai",`,
		"wrong type":       `{"active_provider": ["openai"]}`,
		"unknown provider": `{"active_provider": "mistral"}`,
		"empty file":       ``,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "llm_settings.json")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			store := NewStore(NewFileBackend(path), WithLocalEndpoint("http://localhost:11434/v1"))
			got, source := store.Load(ctx)
			if source != SourceDegraded {
				t.Errorf("source = %q, want %q", source, SourceDegraded)
			}
			if got.ActiveProvider != "" || len(got.Providers) != 0 {
				t.Errorf("Load() = %+v, want empty settings", got)
			}

			_, err := store.Read(ctx)
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Read() error = %v, want *LoadError", err)
			}
			if loadErr.Location != path {
				t.Errorf("LoadError.Location = %q, want %q", loadErr.Location, path)
			}
		})
	}
}

func TestStore_Load_UnreadableDegradesToEmpty(t *testing.T) {
	// A directory at the settings path cannot be read as a file.
	path := t.TempDir()

	got, source := NewStore(NewFileBackend(path)).Load(context.Background())
	if source != SourceDegraded {
		t.Errorf("source = %q, want %q", source, SourceDegraded)
	}
	if got.ActiveProvider != "" {
		t.Errorf("ActiveProvider = %q, want empty", got.ActiveProvider)
	}
}

func TestStore_Read_NotFound(t *testing.T) {
	store := NewStore(NewFileBackend(filepath.Join(t.TempDir(), "missing.json")))

	if _, err := store.Read(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveLoadRoundTrip_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "llm_settings.json")
	store := NewStore(NewFileBackend(path))

	want := sampleSettings()
	want.UseLocalLLM = true
	want.Providers[providers.Claude] = ProviderConfig{APIKey: "sk-ant-x"}

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, source := store.Load(ctx)
	if source != SourceStored {
		t.Errorf("source = %q, want %q", source, SourceStored)
	}
	if !got.Equal(want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file permissions = %o, want 600", perm)
	}
}

func TestStore_SaveReplacesRecord(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileBackend(filepath.Join(t.TempDir(), "llm_settings.json")))

	first := sampleSettings()
	first.Providers[providers.Gemini] = ProviderConfig{APIKey: "AIza"}
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := Settings{ActiveProvider: providers.Claude, Providers: map[providers.ProviderID]ProviderConfig{
		providers.Claude: {APIKey: "sk-ant-x"},
	}}
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Load(ctx)
	if !got.Equal(second) {
		t.Errorf("Load() = %+v, want %+v (no merge with the previous record)", got, second)
	}
}

func TestStore_Save_ValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_settings.json")
	store := NewStore(NewFileBackend(path))

	err := store.Save(context.Background(), Settings{ActiveProvider: "mistral"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Save() error = %v, want *ValidationError", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("invalid settings should not be written")
	}
}

func TestStore_Save_PersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "llm_settings.json")

	err := NewStore(NewFileBackend(path)).Save(context.Background(), sampleSettings())

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Save() error = %v, want *PersistenceError", err)
	}
	if perr.Location != path {
		t.Errorf("Location = %q, want %q", perr.Location, path)
	}
	if perr.Op != "mkdir" {
		t.Errorf("Op = %q, want mkdir", perr.Op)
	}
}

type failingBackend struct {
	writeErr error
}

func (b *failingBackend) Read(context.Context) ([]byte, error) { return nil, ErrNotFound }
func (b *failingBackend) Write(context.Context, []byte) error  { return b.writeErr }
func (b *failingBackend) Location() string                     { return "memory://failing" }
func (b *failingBackend) Close() error                         { return nil }

func TestStore_Save_WrapsPlainBackendErrors(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStore(&failingBackend{writeErr: cause}).Save(context.Background(), sampleSettings())

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Save() error = %v, want *PersistenceError", err)
	}
	if perr.Op != "write" || perr.Location != "memory://failing" {
		t.Errorf("PersistenceError = %+v", perr)
	}
	if !errors.Is(err, cause) {
		t.Error("PersistenceError should unwrap to the backend error")
	}
}
