package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/timebox/internal/config"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/alexanderramin/timebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires an App whose session manager is built by the real factory
// path, with HOME and TIMEBOX_* isolated from the developer's machine.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.KeyStore, config.KeyLogLevel, config.KeyLogFile} {
		t.Setenv("TIMEBOX_"+key, "")
	}

	return &App{
		NewSessions: func(cfg *config.Config) (service.SessionService, error) {
			return service.NewSessionManager(), nil
		},
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// addSession runs "add" against store and fails the test on error.
func addSession(t *testing.T, app *App, store, title, start, end string) {
	t.Helper()
	_, err := executeCmd(t, app, "--store", store, "add", "--title", title, "--start", start, "--end", end)
	require.NoError(t, err)
}

// --- list ---

func TestListCmd_EmptyStore(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	out, err := executeCmd(t, app, "--store", store, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions yet")

	_, statErr := os.Stat(store)
	assert.True(t, os.IsNotExist(statErr), "list must not create the store")
}

func TestListCmd_ShowsSessionsInOrder(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")
	addSession(t, app, store, "Review", "2024-01-01T10:00:00", "2024-01-01T11:00:00")

	out, err := executeCmd(t, app, "--store", store, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Review")
	assert.Less(t, bytes.Index([]byte(out), []byte("Standup")), bytes.Index([]byte(out), []byte("Review")))
	assert.Contains(t, out, "2 sessions · total 1h 15m")
}

func TestListCmd_CorruptStore(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	require.NoError(t, os.WriteFile(store, []byte("{not json"), 0o644))

	_, err := executeCmd(t, app, "--store", store, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptStore)

	data, readErr := os.ReadFile(store)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data))
}

func TestListCmd_UnsupportedExtension(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".csv")

	_, err := executeCmd(t, app, "--store", store, "list")
	require.Error(t, err)
	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)
}

// --- add ---

func TestAddCmd_SavesToStore(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	out, err := executeCmd(t, app, "--store", store, "add",
		"-t", "Standup", "--start", "2024-01-01T09:00:00", "--end", "2024-01-01T09:15:00",
		"-d", "daily sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Standup #1 · 15m")

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Standup"`)
	assert.Contains(t, string(data), `"description": "daily sync"`)
}

func TestAddCmd_Formats(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".db"} {
		t.Run(ext, func(t *testing.T) {
			app := testApp(t)
			store := testutil.TempStorePath(t, ext)
			addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")

			out, err := executeCmd(t, app, "--store", store, "list")
			require.NoError(t, err)
			assert.Contains(t, out, "Standup")
			assert.Contains(t, out, "15m")
		})
	}
}

func TestAddCmd_EndBeforeStart(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	_, err := executeCmd(t, app, "--store", store, "add",
		"--title", "Backwards", "--start", "2024-01-01T10:00:00", "--end", "2024-01-01T09:00:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, statErr := os.Stat(store)
	assert.True(t, os.IsNotExist(statErr), "nothing is saved on validation error")
}

func TestAddCmd_BadTimestamp(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	_, err := executeCmd(t, app, "--store", store, "add",
		"--title", "X", "--start", "2024-01-01 10:00", "--end", "2024-01-01T11:00:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "YYYY-MM-DDTHH:MM:SS")
}

func TestAddCmd_RequiresFlags(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	_, err := executeCmd(t, app, "--store", store, "add", "--title", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestAddCmd_DuplicatesAllowed(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Same", "2024-01-01T09:00:00", "2024-01-01T10:00:00")
	addSession(t, app, store, "Same", "2024-01-01T09:00:00", "2024-01-01T10:00:00")

	out, err := executeCmd(t, app, "--store", store, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 sessions")
}

// --- show ---

func TestShowCmd(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")
	addSession(t, app, store, "Review", "2024-01-01T10:00:00", "2024-01-01T11:30:00")

	out, err := executeCmd(t, app, "--store", store, "show", "#2")
	require.NoError(t, err)
	assert.Contains(t, out, "Session #2")
	assert.Contains(t, out, "Review")
	assert.Contains(t, out, "2024-01-01T10:00:00")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "--", "empty description placeholder")
}

func TestShowCmd_InvalidNumber(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	tests := []struct {
		name string
		arg  string
		is   error
		msg  string
	}{
		{name: "not a number", arg: "abc", msg: "invalid session number"},
		{name: "zero", arg: "0", msg: "invalid session number"},
		{name: "past end", arg: "3", is: domain.ErrIndexOutOfRange, msg: "no session #3 (0 sessions)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, "--store", store, "show", tt.arg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

// --- edit ---

func TestEditCmd_ChangesOnlyGivenFields(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")

	out, err := executeCmd(t, app, "--store", store, "edit", "1", "--end", "2024-01-01T09:30:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Standup #1 · 30m")

	out, err = executeCmd(t, app, "--store", store, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "2024-01-01T09:00:00")
	assert.Contains(t, out, "2024-01-01T09:30:00")
}

func TestEditCmd_InvalidLeavesStoreUnchanged(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "--store", store, "edit", "1", "--start", "2024-01-01T10:00:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestEditCmd_NothingToChange(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")

	_, err := executeCmd(t, app, "--store", store, "edit", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestEditCmd_EmptyDescriptionIsAChange(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	_, err := executeCmd(t, app, "--store", store, "add", "-t", "Standup",
		"--start", "2024-01-01T09:00:00", "--end", "2024-01-01T09:15:00", "-d", "notes")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "--store", store, "edit", "1", "--description", "")
	require.NoError(t, err)

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "notes")
}

func TestEditCmd_OutOfRange(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "Standup", "2024-01-01T09:00:00", "2024-01-01T09:15:00")

	_, err := executeCmd(t, app, "--store", store, "edit", "2", "--title", "X")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "1 session")
}

// --- remove ---

func TestRemoveCmd_ShiftsLaterSessions(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")
	addSession(t, app, store, "A", "2024-01-01T09:00:00", "2024-01-01T09:15:00")
	addSession(t, app, store, "B", "2024-01-01T10:00:00", "2024-01-01T10:15:00")
	addSession(t, app, store, "C", "2024-01-01T11:00:00", "2024-01-01T11:15:00")

	out, err := executeCmd(t, app, "--store", store, "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed B #2")

	out, err = executeCmd(t, app, "--store", store, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "C")
	assert.NotContains(t, out, " B ")
}

func TestRemoveCmd_OutOfRange(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".json")

	_, err := executeCmd(t, app, "--store", store, "delete", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

// --- configuration ---

func TestRootCmd_StoreFromEnv(t *testing.T) {
	app := testApp(t)
	store := testutil.TempStorePath(t, ".yaml")
	t.Setenv("TIMEBOX_STORE", store)

	_, err := executeCmd(t, app, "add", "--title", "Env", "--start", "2024-01-01T09:00:00", "--end", "2024-01-01T09:05:00")
	require.NoError(t, err)
	assert.Equal(t, store, app.Config.Store)

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Env")
}

func TestRootCmd_DefaultStoreUnderHome(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "--title", "Home", "--start", "2024-01-01T09:00:00", "--end", "2024-01-01T09:05:00")
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".timebox", "sessions.json"), app.Config.Store)
	_, err = os.Stat(app.Config.Store)
	assert.NoError(t, err)
}

func TestRootCmd_MissingExplicitConfig(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "list")
	require.Error(t, err)
}

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "timebox")
}

func TestRootCmd_NoSessionFactory(t *testing.T) {
	app := testApp(t)
	app.NewSessions = nil

	_, err := executeCmd(t, app, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRootCmd_PrebuiltSessionsAreKept(t *testing.T) {
	app := testApp(t)
	mgr := service.NewSessionManager()
	app.Sessions = mgr
	app.NewSessions = nil
	store := testutil.TempStorePath(t, ".json")

	addSession(t, app, store, "Kept", "2024-01-01T09:00:00", "2024-01-01T09:05:00")
	assert.Same(t, mgr, app.Sessions)
	assert.Equal(t, 1, mgr.Len())
}
