package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fsmlint/go-fsmlint/machine"
	"github.com/fsmlint/go-fsmlint/parser"
	"github.com/fsmlint/go-fsmlint/schema"
)

// SQLiteStore keeps documents in a SQLite revision log. Every save appends a
// new revision; loading returns the latest one. Older revisions stay
// available for inspection with ordinary SQL tooling.
type SQLiteStore struct {
	db        *sql.DB
	validator *schema.Validator
	logger    *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at dsn and ensures the
// revisions table exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps in-memory databases coherent and is plenty
	// for a whole-document store.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:        db,
		validator: validator,
		logger:    slog.Default().With("component", "store.sqlite", "dsn", dsn),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable wal mode: %w", err)
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS machine_revisions (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	document   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_machine_revisions_created
	ON machine_revisions (created_at);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create revisions table: %w", err)
	}
	return nil
}

// Load returns the machine from the most recently inserted revision. An empty
// revision log yields an empty machine; a malformed revision does the same
// with a diagnostic.
//
// Ordering is by rowid, which is append-monotonic. The created_at text is for
// human inspection only: RFC3339Nano trims trailing fractional zeros, so the
// strings do not sort lexically by instant.
func (s *SQLiteStore) Load(ctx context.Context) (*machine.Machine, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM machine_revisions
		 ORDER BY rowid DESC LIMIT 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return machine.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest revision: %w", err)
	}

	m, ok := decode([]byte(doc), s.validator, s.logger)
	if !ok {
		return machine.New(), nil
	}
	return m, nil
}

// Save appends a new revision holding the canonical JSON document.
func (s *SQLiteStore) Save(ctx context.Context, m *machine.Machine) error {
	data, err := parser.ToJSON(m)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO machine_revisions (id, created_at, document) VALUES (?, ?, ?)`,
		uuid.NewString(), time.Now().UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
