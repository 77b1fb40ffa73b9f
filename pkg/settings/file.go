package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is the default location of the settings file.
const DefaultPath = "/data/settings/llm_settings.json"

// FileBackend stores the record as a JSON file.
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers never observe a partial record.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the file at path.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultPath
	}
	return &FileBackend{path: path}
}

// Path returns the settings file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Location implements Backend.
func (b *FileBackend) Location() string {
	return b.path
}

// Read implements Backend.
func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Write implements Backend. The parent directory is created if needed.
func (b *FileBackend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Location: b.path, Op: "mkdir", Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Location: b.path, Op: "create", Cause: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &PersistenceError{Location: b.path, Op: "write", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &PersistenceError{Location: b.path, Op: "sync", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &PersistenceError{Location: b.path, Op: "close", Cause: err}
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return &PersistenceError{Location: b.path, Op: "chmod", Cause: err}
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		cleanup()
		return &PersistenceError{Location: b.path, Op: "rename", Cause: fmt.Errorf("replace %s: %w", b.path, err)}
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}
