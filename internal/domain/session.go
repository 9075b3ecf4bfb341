package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the canonical, lexicographically sortable text form of
// session start and end times.
const TimestampLayout = "2006-01-02T15:04:05"

// Session is one time-bounded record. ID is assigned in memory and is never
// persisted; position in the manager's collection is the display order.
type Session struct {
	ID          string
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

// NewSession validates raw field text and builds a Session with a fresh ID.
func NewSession(title, start, end, description string) (*Session, error) {
	startTime, err := ParseTimestamp(start)
	if err != nil {
		return nil, newValidationError("start_time", fmt.Sprintf("cannot parse %q, use YYYY-MM-DDTHH:MM:SS", start), err)
	}
	endTime, err := ParseTimestamp(end)
	if err != nil {
		return nil, newValidationError("end_time", fmt.Sprintf("cannot parse %q, use YYYY-MM-DDTHH:MM:SS", end), err)
	}

	s := &Session{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		StartTime:   startTime,
		EndTime:     endTime,
		Description: description,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the whole record: a non-blank title and end not before start.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return newValidationError("title", "title is required", nil)
	}
	if s.EndTime.Before(s.StartTime) {
		return newValidationError("end_time", fmt.Sprintf("end %s is before start %s",
			FormatTimestamp(s.EndTime), FormatTimestamp(s.StartTime)), nil)
	}
	return nil
}

// Duration is recomputed from the two timestamps on every call.
func (s *Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Summary returns a one-line description for list rendering.
func (s *Session) Summary() string {
	return fmt.Sprintf("%s (%s → %s, %s)",
		s.Title, FormatTimestamp(s.StartTime), FormatTimestamp(s.EndTime), s.Duration())
}

// Equal reports value equality of the persisted fields. IDs are ignored.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Title == other.Title &&
		s.StartTime.Equal(other.StartTime) &&
		s.EndTime.Equal(other.EndTime) &&
		s.Description == other.Description
}

// Canonical returns a copy of s in the form it takes after a save and load:
// times in UTC with whole seconds and a trimmed title. The ID is kept.
func (s *Session) Canonical() (*Session, error) {
	c, err := FromRecord(s.ToRecord())
	if err != nil {
		return nil, err
	}
	c.ID = s.ID
	return c, nil
}

// Clone returns a copy that shares no state with s.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}

// Fields names a partial update. Nil pointers leave the field unchanged.
type Fields struct {
	Title       *string
	Start       *string
	End         *string
	Description *string
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Start == nil && f.End == nil && f.Description == nil
}

// Apply returns a new Session with f applied and re-validated as a whole.
// The receiver is never modified.
func (s *Session) Apply(f Fields) (*Session, error) {
	next := s.Clone()
	if f.Title != nil {
		next.Title = strings.TrimSpace(*f.Title)
	}
	if f.Start != nil {
		t, err := ParseTimestamp(*f.Start)
		if err != nil {
			return nil, newValidationError("start_time", fmt.Sprintf("cannot parse %q, use YYYY-MM-DDTHH:MM:SS", *f.Start), err)
		}
		next.StartTime = t
	}
	if f.End != nil {
		t, err := ParseTimestamp(*f.End)
		if err != nil {
			return nil, newValidationError("end_time", fmt.Sprintf("cannot parse %q, use YYYY-MM-DDTHH:MM:SS", *f.End), err)
		}
		next.EndTime = t
	}
	if f.Description != nil {
		next.Description = *f.Description
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// ParseTimestamp parses the canonical layout as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.UTC)
}

// FormatTimestamp renders t in UTC in the canonical layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
