package service

import (
	"context"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
)

// SessionReader is the read-only view presentation needs to render the list
// and details panel.
type SessionReader interface {
	List() []SessionView
	Len() int
	GetByID(id string) (*domain.Session, error)
	IndexOf(id string) (int, error)
	TotalDuration() time.Duration
	Dirty() bool
}

// SessionWriter mutates sessions by stable ID. Interactive screens use this
// instead of positions so a selection stays valid across other edits.
type SessionWriter interface {
	Add(s *domain.Session) (int, error)
	UpdateByID(id string, f domain.Fields) error
	DeleteByID(id string) error
}

// SessionPersister moves the collection to and from the persistent store.
type SessionPersister interface {
	Load(ctx context.Context, path string) error
	Save(ctx context.Context, path string) error
}

// SessionStore is the capability handed to the TUI.
type SessionStore interface {
	SessionReader
	SessionWriter
	SessionPersister
}

// SessionService is the full manager surface used by CLI commands,
// including position-based access.
type SessionService interface {
	SessionStore
	Get(index int) (*domain.Session, error)
	Update(index int, f domain.Fields) error
	Delete(index int) error
	State() ManagerState
}

var _ SessionService = (*SessionManager)(nil)
