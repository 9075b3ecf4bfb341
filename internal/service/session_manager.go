package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/repository"
	"github.com/google/uuid"
)

// ManagerState tracks how the in-memory collection relates to the store.
type ManagerState int

const (
	// StateUnloaded: nothing loaded and nothing changed yet.
	StateUnloaded ManagerState = iota
	// StateLoaded: the collection came from Load or has unsaved mutations.
	StateLoaded
	// StatePersisted: the collection matches what the last Save wrote.
	StatePersisted
)

func (s ManagerState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StatePersisted:
		return "persisted"
	default:
		return fmt.Sprintf("ManagerState(%d)", int(s))
	}
}

// SessionView is a read-only summary of one session at its current position.
type SessionView struct {
	ID          string
	Position    int
	Title       string
	Start       time.Time
	End         time.Time
	Duration    time.Duration
	Description string
}

// Summary returns the same one-line text as Session.Summary.
func (v SessionView) Summary() string {
	return fmt.Sprintf("%s (%s → %s, %s)",
		v.Title, domain.FormatTimestamp(v.Start), domain.FormatTimestamp(v.End), v.Duration)
}

// Record returns the persisted form of the session.
func (v SessionView) Record() domain.Record {
	return domain.Record{
		Title:       v.Title,
		StartTime:   domain.FormatTimestamp(v.Start),
		EndTime:     domain.FormatTimestamp(v.End),
		Description: v.Description,
	}
}

// RepoResolver maps a store path to a repository.
type RepoResolver func(path string) (repository.SessionRepo, error)

// SessionManager owns the ordered session collection and its persistence.
// It is not safe for concurrent use; one caller owns it at a time.
//
// Positions shift on Delete. Callers holding a position across other
// mutations should use the ID-based methods instead.
type SessionManager struct {
	sessions []*domain.Session
	state    ManagerState
	dirty    bool

	observer UseCaseObserver
	openRepo RepoResolver
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithObserver reports every operation to obs.
func WithObserver(obs UseCaseObserver) ManagerOption {
	return func(m *SessionManager) {
		if obs != nil {
			m.observer = obs
		}
	}
}

// WithRepoResolver overrides how store paths become repositories.
func WithRepoResolver(fn RepoResolver) ManagerOption {
	return func(m *SessionManager) {
		if fn != nil {
			m.openRepo = fn
		}
	}
}

// NewSessionManager returns an empty, unloaded manager.
func NewSessionManager(opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		observer: NoopUseCaseObserver{},
		openRepo: repository.Open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SessionManager) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	m.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// Load replaces the whole collection with the store's content. A missing
// store yields an empty collection. On any error the current collection is
// left as it was.
func (m *SessionManager) Load(ctx context.Context, path string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"path": path}
	defer func() { m.observe(ctx, "load-sessions", startedAt, fields, err) }()

	repo, err := m.openRepo(path)
	if err != nil {
		return &domain.IOError{Op: "load", Path: path, Err: err}
	}

	records, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorrupt) {
			return &domain.CorruptStoreError{Path: path, Err: err}
		}
		return &domain.IOError{Op: "load", Path: path, Err: err}
	}

	loaded := make([]*domain.Session, 0, len(records))
	for i, rec := range records {
		s, err := domain.FromRecord(rec)
		if err != nil {
			return &domain.CorruptStoreError{Path: path, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		loaded = append(loaded, s)
	}

	m.sessions = loaded
	m.state = StateLoaded
	m.dirty = false
	fields["count"] = len(loaded)
	return nil
}

// Save writes the whole collection to path. The write is all-or-nothing:
// on failure the previous store content is intact.
func (m *SessionManager) Save(ctx context.Context, path string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"path": path, "count": len(m.sessions)}
	defer func() { m.observe(ctx, "save-sessions", startedAt, fields, err) }()

	repo, err := m.openRepo(path)
	if err != nil {
		return &domain.IOError{Op: "save", Path: path, Err: err}
	}

	records := make([]domain.Record, 0, len(m.sessions))
	for _, s := range m.sessions {
		records = append(records, s.ToRecord())
	}
	if err := repo.Save(ctx, records); err != nil {
		return &domain.IOError{Op: "save", Path: path, Err: err}
	}

	m.state = StatePersisted
	m.dirty = false
	return nil
}

// Add appends a validated, canonical copy of s and returns its position.
// Duplicate field values are allowed; IDs are made unique.
func (m *SessionManager) Add(s *domain.Session) (pos int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { m.observe(context.Background(), "add-session", startedAt, fields, err) }()

	if s == nil {
		return -1, &domain.ValidationError{Field: "session", Message: "session is required"}
	}
	if err := s.Validate(); err != nil {
		return -1, err
	}

	c, err := s.Canonical()
	if err != nil {
		return -1, err
	}
	if c.ID == "" || m.indexOf(c.ID) >= 0 {
		c.ID = uuid.New().String()
	}
	m.sessions = append(m.sessions, c)
	m.markChanged()

	pos = len(m.sessions) - 1
	fields["index"] = pos
	return pos, nil
}

// Delete removes the session at index. Every later position shifts down by one.
func (m *SessionManager) Delete(index int) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"index": index}
	defer func() { m.observe(context.Background(), "delete-session", startedAt, fields, err) }()

	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.sessions = append(m.sessions[:index], m.sessions[index+1:]...)
	m.markChanged()
	return nil
}

// Update applies f to the session at index and re-validates the result as a
// whole. On failure the session is unchanged.
func (m *SessionManager) Update(index int, f domain.Fields) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"index": index}
	defer func() { m.observe(context.Background(), "update-session", startedAt, fields, err) }()

	if err := m.checkIndex(index); err != nil {
		return err
	}
	if f.IsEmpty() {
		return nil
	}
	next, err := m.sessions[index].Apply(f)
	if err != nil {
		return err
	}
	m.sessions[index] = next
	m.markChanged()
	return nil
}

// Get returns a copy of the session at index.
func (m *SessionManager) Get(index int) (*domain.Session, error) {
	if err := m.checkIndex(index); err != nil {
		return nil, err
	}
	return m.sessions[index].Clone(), nil
}

// List returns summary views in display order. It never mutates state.
func (m *SessionManager) List() []SessionView {
	views := make([]SessionView, 0, len(m.sessions))
	for i, s := range m.sessions {
		views = append(views, SessionView{
			ID:          s.ID,
			Position:    i,
			Title:       s.Title,
			Start:       s.StartTime,
			End:         s.EndTime,
			Duration:    s.Duration(),
			Description: s.Description,
		})
	}
	return views
}

func (m *SessionManager) Len() int { return len(m.sessions) }

// Dirty reports whether there are mutations since the last Load or Save.
func (m *SessionManager) Dirty() bool { return m.dirty }

func (m *SessionManager) State() ManagerState { return m.state }

// TotalDuration sums the duration of every session.
func (m *SessionManager) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range m.sessions {
		total += s.Duration()
	}
	return total
}

// IndexOf returns the current position of id, or ErrSessionNotFound.
func (m *SessionManager) IndexOf(id string) (int, error) {
	if i := m.indexOf(id); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
}

// GetByID returns a copy of the session with the given ID.
func (m *SessionManager) GetByID(id string) (*domain.Session, error) {
	i, err := m.IndexOf(id)
	if err != nil {
		return nil, err
	}
	return m.sessions[i].Clone(), nil
}

// UpdateByID resolves id to its current position and updates it.
func (m *SessionManager) UpdateByID(id string, f domain.Fields) error {
	i, err := m.IndexOf(id)
	if err != nil {
		return err
	}
	return m.Update(i, f)
}

// DeleteByID resolves id to its current position and deletes it.
func (m *SessionManager) DeleteByID(id string) error {
	i, err := m.IndexOf(id)
	if err != nil {
		return err
	}
	return m.Delete(i)
}

func (m *SessionManager) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, s := range m.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *SessionManager) checkIndex(index int) error {
	if index < 0 || index >= len(m.sessions) {
		return &domain.IndexError{Index: index, Len: len(m.sessions)}
	}
	return nil
}

func (m *SessionManager) markChanged() {
	m.state = StateLoaded
	m.dirty = true
}
