package cli

import (
	"os"
	"testing"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/importer"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/alexanderramin/timebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_ConvertsFormat(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:30:00")
	addSession(t, app, store, "B", "2024-01-01T10:00:00", "2024-01-01T10:30:00")
	dest := testutil.TempStorePath(t, ".toml")

	out, err := executeCmd(t, app, "--store", store, "export", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 sessions to")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[sessions]]")

	out, err = executeCmd(t, app, "--store", dest, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
}

func TestExportCmd_LeavesManagerOnConfiguredStore(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:30:00")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "--store", store, "export", testutil.TempStorePath(t, ".db"))
	require.NoError(t, err)

	assert.Equal(t, service.StateLoaded, app.Sessions.State(), "the configured store was not written")
	assert.False(t, app.Sessions.Dirty())
	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExportCmd_UnsupportedFormat(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:30:00")

	_, err := executeCmd(t, app, "--store", store, "export", testutil.TempStorePath(t, ".csv"))
	require.Error(t, err)
	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestExportCmd_RefusesOverwrite(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:30:00")
	dest := testutil.TempStorePath(t, ".yaml")
	require.NoError(t, os.WriteFile(dest, []byte("keep"), 0o644))

	_, err := executeCmd(t, app, "--store", store, "export", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	data, _ := os.ReadFile(dest)
	assert.Equal(t, "keep", string(data))

	_, err = executeCmd(t, app, "--store", store, "export", "--force", dest)
	require.NoError(t, err)
}

func TestImportCmd_AppendsInOrder(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Existing", "2024-01-01T08:00:00", "2024-01-01T08:30:00")

	src := testutil.TempStorePath(t, ".yaml")
	require.NoError(t, os.WriteFile(src, []byte(`- title: First
  start_time: "2024-01-02T09:00:00"
  end_time: "2024-01-02T10:00:00"
  description: ""
- title: Second
  start_time: "2024-01-02T11:00:00"
  end_time: "2024-01-02T11:45:00"
  description: notes
`), 0o644))

	out, err := executeCmd(t, app, "--store", store, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 sessions")

	out, err = executeCmd(t, app, "--store", store, "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Second")
	assert.Contains(t, out, "notes")
}

func TestImportCmd_InvalidRecordImportsNothing(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Existing", "2024-01-01T08:00:00", "2024-01-01T08:30:00")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	src := testutil.TempStorePath(t, ".json")
	require.NoError(t, os.WriteFile(src, []byte(`[
  {"title": "Fine", "start_time": "2024-01-02T09:00:00", "end_time": "2024-01-02T10:00:00", "description": ""},
  {"title": "Backwards", "start_time": "2024-01-02T10:00:00", "end_time": "2024-01-02T09:00:00", "description": ""}
]`), 0o644))

	_, err = executeCmd(t, app, "--store", store, "import", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "1 invalid record")
	assert.Contains(t, err.Error(), "record 2")

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestImportCmd_SkipDuplicatesAndDryRun(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:30:00")

	src := testutil.TempStorePath(t, ".json")
	_, err := executeCmd(t, app, "--store", store, "export", src)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "--store", store, "import", "--skip-duplicates", "--dry-run", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 0 sessions (1 duplicate skipped)")

	out, err = executeCmd(t, app, "--store", store, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 session")

	out, err = executeCmd(t, app, "--store", store, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 sessions")
}

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	_, err := executeCmd(t, app, "--store", store, "import", testutil.TempStorePath(t, ".json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrSourceMissing)
}
