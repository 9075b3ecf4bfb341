package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/timebox/internal/domain"
)

// FileSessionRepo stores records in a single flat file using a Codec.
type FileSessionRepo struct {
	path  string
	codec Codec
}

// NewFileSessionRepo creates a FileSessionRepo for path.
func NewFileSessionRepo(path string, codec Codec) *FileSessionRepo {
	return &FileSessionRepo{path: path, codec: codec}
}

func (r *FileSessionRepo) Path() string { return r.path }

func (r *FileSessionRepo) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if len(data) == 0 {
		return nil, corruptf("empty %s file", r.codec.Name())
	}
	records, err := r.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *FileSessionRepo) Save(ctx context.Context, records []domain.Record) error {
	data, err := r.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", r.codec.Name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	return atomicWriteFile(r.path, data, 0644)
}

// atomicWriteFile writes data to a temp file in the target's directory, syncs
// it, then renames it over path. On any failure the previous content of path
// is left untouched and the temp file is removed.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	committed = true
	return nil
}
