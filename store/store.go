// Package store persists machine documents. Two backends are provided: a
// whole-document JSON file and a SQLite revision log.
//
// Loading fails soft: an absent or malformed stored document yields a fresh
// empty machine and a diagnostic log entry, never an error. Only genuine
// infrastructure failures (for example a closed database) surface as errors.
package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fsmlint/go-fsmlint/machine"
	"github.com/fsmlint/go-fsmlint/parser"
	"github.com/fsmlint/go-fsmlint/schema"
)

// Store is the document persistence contract.
type Store interface {
	// Load returns the stored machine, or a fresh empty machine when
	// nothing usable is stored.
	Load(ctx context.Context) (*machine.Machine, error)

	// Save durably replaces the stored machine with m.
	Save(ctx context.Context, m *machine.Machine) error

	// Close releases backend resources.
	Close() error
}

// decode turns stored bytes into a machine, reporting whether the content was
// usable. Schema-invalid content counts as malformed.
func decode(data []byte, validator *schema.Validator, logger *slog.Logger) (*machine.Machine, bool) {
	if errs := validator.ValidateBytes(data); len(errs) > 0 {
		logger.Warn("stored document does not match schema, starting fresh",
			"violations", len(errs), "first", errs[0].String())
		return nil, false
	}
	m, err := parser.FromJSON(data)
	if err != nil {
		logger.Warn("could not parse stored document, starting fresh", "error", err)
		return nil, false
	}
	return m, true
}

// FileStore keeps the document in a single JSON file. Saves go through a
// temp-file rename, so a crash mid-write cannot leave a truncated document.
type FileStore struct {
	path      string
	validator *schema.Validator
	logger    *slog.Logger
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) (*FileStore, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return &FileStore{
		path:      path,
		validator: validator,
		logger:    slog.Default().With("component", "store.file", "path", path),
	}, nil
}

// Load reads the document file. An absent file is normal and yields an empty
// machine; unreadable or malformed content does the same with a diagnostic.
func (s *FileStore) Load(_ context.Context) (*machine.Machine, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return machine.New(), nil
	}
	if err != nil {
		s.logger.Warn("could not read stored document, starting fresh", "error", err)
		return machine.New(), nil
	}

	m, ok := decode(data, s.validator, s.logger)
	if !ok {
		return machine.New(), nil
	}
	return m, nil
}

// Save writes the canonical JSON document to a temp file in the same
// directory and renames it over any prior content.
func (s *FileStore) Save(_ context.Context, m *machine.Machine) error {
	data, err := parser.ToJSON(m)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
