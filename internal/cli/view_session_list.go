package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sessionListKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Save       key.Binding
	Reload     key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
}

func defaultSessionListKeys() sessionListKeyMap {
	return sessionListKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x", "delete")),
		Save:       key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save")),
		Reload:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		DetailUp:   key.NewBinding(key.WithKeys("pgup")),
		DetailDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}

// sessionListView shows session titles on the left and the highlighted
// session's details on the right.
type sessionListView struct {
	state  *SharedState
	keys   sessionListKeyMap
	views  []service.SessionView
	cursor int
	detail viewport.Model
}

func newSessionListView(state *SharedState) *sessionListView {
	keys := defaultSessionListKeys()
	vp := viewport.New(0, 0)
	// Only page keys scroll the details; letters stay free for actions.
	vp.KeyMap = viewport.KeyMap{PageUp: keys.DetailUp, PageDown: keys.DetailDown}
	v := &sessionListView{
		state:  state,
		keys:   keys,
		detail: vp,
	}
	v.resize()
	v.reload()
	return v
}

func (v *sessionListView) ID() ViewID    { return ViewSessionList }
func (v *sessionListView) Title() string { return "" }

func (v *sessionListView) ShortHelp() []key.Binding {
	return []key.Binding{v.keys.Add, v.keys.Edit, v.keys.Delete, v.keys.Save, v.keys.Reload,
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))}
}

func (v *sessionListView) Init() tea.Cmd { return nil }

// reload re-reads the store and keeps the cursor on SelectedID when it
// still exists.
func (v *sessionListView) reload() {
	v.views = v.state.Store.List()
	v.cursor = min(v.cursor, max(len(v.views)-1, 0))
	if v.state.SelectedID != "" {
		for i, s := range v.views {
			if s.ID == v.state.SelectedID {
				v.cursor = i
				break
			}
		}
	}
	v.syncSelection()
}

func (v *sessionListView) syncSelection() {
	if sel, ok := v.selected(); ok {
		v.state.SelectedID = sel.ID
		v.detail.SetContent(formatter.FormatSessionDetail(sel, v.state.Store.TotalDuration(), time.Now()))
	} else {
		v.state.SelectedID = ""
		v.detail.SetContent(formatter.Dim("Press a to add a session."))
	}
	v.detail.GotoTop()
}

func (v *sessionListView) selected() (service.SessionView, bool) {
	if v.cursor < 0 || v.cursor >= len(v.views) {
		return service.SessionView{}, false
	}
	return v.views[v.cursor], true
}

func (v *sessionListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.reload()
		return v, nil

	case tea.WindowSizeMsg:
		v.resize()
		return v, nil

	case tea.KeyMsg:
		return v.updateKey(msg)
	}
	return v, nil
}

func (v *sessionListView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.syncSelection()
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.views)-1 {
			v.cursor++
			v.syncSelection()
		}
	case key.Matches(msg, v.keys.Add):
		return v, pushView(newAddSessionView(v.state))
	case key.Matches(msg, v.keys.Edit):
		if sel, ok := v.selected(); ok {
			return v, pushView(newEditSessionView(v.state, sel.ID))
		}
	case key.Matches(msg, v.keys.Delete):
		if sel, ok := v.selected(); ok {
			return v, execDeleteSession(v.state, sel.ID, sel.Title)
		}
	case key.Matches(msg, v.keys.Save):
		return v, msgCmd(saveSessions(v.state))
	case key.Matches(msg, v.keys.Reload):
		return v, execReload(v.state)
	case key.Matches(msg, v.keys.DetailUp), key.Matches(msg, v.keys.DetailDown):
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}
	return v, nil
}

// listWidth is the width of the left panel's content.
func (v *sessionListView) listWidth() int {
	return max(min(v.state.Width/3, 40), 16)
}

func (v *sessionListView) resize() {
	// Borders and padding take 4 columns per panel and 2 rows.
	v.detail.Width = max(v.state.Width-v.listWidth()-8, 20)
	v.detail.Height = max(v.state.ContentHeight()-2, 3)
}

func (v *sessionListView) View() string {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim).
		Padding(0, 1)

	left := panel.Width(v.listWidth()).Render(v.renderList())
	right := panel.Render(v.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (v *sessionListView) renderList() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("SESSIONS") + "\n")

	if len(v.views) == 0 {
		b.WriteString(formatter.Dim("No sessions yet."))
		return b.String()
	}

	width := v.listWidth() - 2
	for i, s := range v.views {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		b.WriteString(cursor + style.Render(truncate(s.Title, width)) + "\n")
	}
	b.WriteString(formatter.Dim(fmt.Sprintf("%s · %s",
		formatter.Plural(len(v.views), "session", "sessions"),
		formatter.FormatDuration(v.state.Store.TotalDuration()))))
	return b.String()
}

// truncate shortens s to width display cells, ending in "…" when cut.
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
