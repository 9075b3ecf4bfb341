package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
)

var (
	// ErrCorrupt marks persisted content that exists but cannot be decoded.
	ErrCorrupt = errors.New("malformed session store")

	// ErrUnsupportedFormat is returned for store paths with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported store format")
)

// SessionRepo persists the full ordered collection of session records.
// Load returns (nil, nil) when the store does not exist yet.
type SessionRepo interface {
	Load(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, records []domain.Record) error
	Path() string
}

// Open picks a SessionRepo implementation from the path's extension.
// Paths without an extension are stored as JSON.
func Open(path string) (SessionRepo, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".json":
		return NewFileSessionRepo(path, JSONCodec{}), nil
	case ".yaml", ".yml":
		return NewFileSessionRepo(path, YAMLCodec{}), nil
	case ".toml":
		return NewFileSessionRepo(path, TOMLCodec{}), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSessionRepo(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// corruptf wraps a decode failure so callers can match it with ErrCorrupt.
func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
