package importer

import (
	"fmt"

	"github.com/alexanderramin/timebox/internal/domain"
)

// ValidateRecords checks every record before anything is imported.
// Returns a slice of all validation errors found, each naming its 1-based
// record number.
func ValidateRecords(records []domain.Record) []error {
	var errs []error
	for i, rec := range records {
		if _, err := domain.FromRecord(rec); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
		}
	}
	return errs
}
