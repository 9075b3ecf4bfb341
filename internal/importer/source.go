package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/repository"
)

// ErrSourceMissing is returned when the file to import does not exist.
var ErrSourceMissing = errors.New("import file does not exist")

// LoadRecords reads every record from a session file in any supported store
// format. Unlike a store load, a missing file is an error.
func LoadRecords(ctx context.Context, path string) ([]domain.Record, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceMissing)
		}
		return nil, fmt.Errorf("checking import file: %w", err)
	}

	repo, err := repository.Open(path)
	if err != nil {
		return nil, err
	}
	records, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return records, nil
}
