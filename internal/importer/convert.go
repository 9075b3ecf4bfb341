package importer

import (
	"github.com/alexanderramin/timebox/internal/domain"
)

// Options controls how imported records are merged into existing sessions.
type Options struct {
	// SkipDuplicates drops records whose four fields equal an existing
	// session or an earlier record in the same import.
	SkipDuplicates bool
}

// Result is the outcome of Convert.
type Result struct {
	Sessions []*domain.Session
	Skipped  int
}

// Convert turns validated records into sessions ready to append after
// existing, in file order. Call ValidateRecords first; Convert stops at the
// first invalid record.
func Convert(records []domain.Record, existing []domain.Record, opts Options) (*Result, error) {
	seen := make(map[domain.Record]bool, len(existing)+len(records))
	for _, rec := range existing {
		seen[rec] = true
	}

	res := &Result{Sessions: make([]*domain.Session, 0, len(records))}
	for _, rec := range records {
		s, err := domain.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		// Compare the normalized form so " Standup" matches "Standup".
		key := s.ToRecord()
		if opts.SkipDuplicates && seen[key] {
			res.Skipped++
			continue
		}
		seen[key] = true
		res.Sessions = append(res.Sessions, s)
	}
	return res, nil
}
