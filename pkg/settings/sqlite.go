package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultSQLiteKey is the row key used when none is configured.
const DefaultSQLiteKey = "llm_settings"

// SQLiteBackend stores the record as a single row of a key-value table.
// It suits deployments that already keep state in SQLite.
type SQLiteBackend struct {
	db        *sql.DB
	dbPath    string
	key       string
	closeOnce sync.Once

	readStmt  *sql.Stmt
	writeStmt *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// Key is the row key of the settings record.
	// Default: "llm_settings"
	Key string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend opens (creating if needed) the database at cfg.DBPath.
func NewSQLiteBackend(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultSQLiteKey
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		cfg.DBPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	backend := &SQLiteBackend{
		db:     db,
		dbPath: cfg.DBPath,
		key:    cfg.Key,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`)
	return err
}

func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.readStmt, err = s.db.Prepare(`SELECT value FROM settings WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("prepare read: %w", err)
	}

	s.writeStmt, err = s.db.Prepare(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare write: %w", err)
	}

	return nil
}

// Location implements Backend.
func (s *SQLiteBackend) Location() string {
	return fmt.Sprintf("sqlite://%s#%s", s.dbPath, s.key)
}

// Read implements Backend.
func (s *SQLiteBackend) Read(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.readStmt.QueryRowContext(ctx, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return value, nil
}

// Write implements Backend.
func (s *SQLiteBackend) Write(ctx context.Context, data []byte) error {
	if _, err := s.writeStmt.ExecContext(ctx, s.key, data, time.Now().Unix()); err != nil {
		return &PersistenceError{Location: s.Location(), Op: "upsert", Cause: err}
	}
	return nil
}

// Close closes the prepared statements and the database.
func (s *SQLiteBackend) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.readStmt != nil {
			s.readStmt.Close()
		}
		if s.writeStmt != nil {
			s.writeStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}
