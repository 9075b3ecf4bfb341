package cli

import (
	"os"
	"time"

	"github.com/alexanderramin/timebox/internal/service"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	Store     service.SessionStore
	StorePath string

	// SelectedID is the stable ID of the highlighted session. Views resolve
	// it against the store on every refresh, so it survives deletes above it.
	SelectedID string

	// DiskChanged is set when the store file changed outside this process
	// since the last load or save. Nothing is reloaded until the user asks.
	DiskChanged bool
	synced      fileStamp

	// Terminal dimensions
	Width  int
	Height int
}

// fileStamp identifies one version of the store file on disk.
type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func statStore(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// markSynced records the store file as matching memory, after a load or save.
func (s *SharedState) markSynced() {
	s.synced = statStore(s.StorePath)
	s.DiskChanged = false
}

// changedSinceSync reports whether the store file differs from the version
// this process last loaded or wrote.
func (s *SharedState) changedSinceSync() bool {
	return statStore(s.StorePath) != s.synced
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status line (1), and status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 3 {
		h = 3
	}
	return h
}
