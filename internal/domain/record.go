package domain

// Record is the persisted form of a Session: four named text fields.
type Record struct {
	Title       string `json:"title" yaml:"title" toml:"title"`
	StartTime   string `json:"start_time" yaml:"start_time" toml:"start_time"`
	EndTime     string `json:"end_time" yaml:"end_time" toml:"end_time"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// ToRecord maps s to its persisted text fields.
func (s *Session) ToRecord() Record {
	return Record{
		Title:       s.Title,
		StartTime:   FormatTimestamp(s.StartTime),
		EndTime:     FormatTimestamp(s.EndTime),
		Description: s.Description,
	}
}

// FromRecord validates r and builds a Session with a fresh ID.
func FromRecord(r Record) (*Session, error) {
	return NewSession(r.Title, r.StartTime, r.EndTime, r.Description)
}
