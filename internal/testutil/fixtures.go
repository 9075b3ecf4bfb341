package testutil

import (
	"strconv"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/google/uuid"
)

// BaseTime is the default start of test sessions.
var BaseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Session options
type SessionOption func(*domain.Session)

func WithStart(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartTime = t
	}
}

func WithEnd(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.EndTime = t
	}
}

// WithSpan sets start and end from a start time and a length.
func WithSpan(start time.Time, d time.Duration) SessionOption {
	return func(s *domain.Session) {
		s.StartTime = start
		s.EndTime = start.Add(d)
	}
}

func WithDescription(desc string) SessionOption {
	return func(s *domain.Session) {
		s.Description = desc
	}
}

// NewTestSession builds a valid one-hour session starting at BaseTime.
// It bypasses NewSession so tests can set times directly; options must keep
// the session valid.
func NewTestSession(title string, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		Title:     title,
		StartTime: BaseTime,
		EndTime:   BaseTime.Add(time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestRecords returns n valid records titled "Session 1".."Session n",
// each an hour later than the previous one.
func NewTestRecords(n int) []domain.Record {
	records := make([]domain.Record, 0, n)
	for i := range n {
		start := BaseTime.Add(time.Duration(i) * time.Hour)
		s := NewTestSession("Session "+strconv.Itoa(i+1), WithSpan(start, 30*time.Minute))
		records = append(records, s.ToRecord())
	}
	return records
}

