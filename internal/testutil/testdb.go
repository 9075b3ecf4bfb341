package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/timebox/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// TempStorePath returns a path named sessions<ext> inside a fresh temp dir.
// The file itself is not created.
func TempStorePath(t *testing.T, ext string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sessions"+ext)
}
