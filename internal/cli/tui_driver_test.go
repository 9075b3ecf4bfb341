package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/timebox/internal/service"
	"github.com/alexanderramin/timebox/internal/teatest"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with timebox-specific inspection methods.
// It provides access to appModel internals (view stack, shared state)
// that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver loads the store at path into a fresh manager, builds the
// appModel without a file watcher, sets terminal size, and drains Init().
func NewTestDriver(t *testing.T, path string) *TestDriver {
	t.Helper()

	mgr := service.NewSessionManager()
	require.NoError(t, mgr.Load(context.Background(), path))

	m := newAppModel(mgr, path, nil)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── timebox-specific inspection ──────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
// Checks model.quitting (q/Ctrl+C/quitMsg) and the driver's Quitting flag
// (tea.QuitMsg seen while draining).
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the last action output shown under the content area,
// without styling.
func (d *TestDriver) LastOutput() string {
	return stripANSI(d.appModel().lastOutput)
}

// PlainView returns the rendered screen without styling.
func (d *TestDriver) PlainView() string {
	return stripANSI(d.View())
}

// SelectedTitle returns the title of the highlighted session, or "".
func (d *TestDriver) SelectedTitle() string {
	st := d.State()
	if st.SelectedID == "" {
		return ""
	}
	s, err := st.Store.GetByID(st.SelectedID)
	if err != nil {
		return ""
	}
	return s.Title
}
