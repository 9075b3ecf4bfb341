package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// The session store is not safe for concurrent use, so every action below
// calls it synchronously from Update and only wraps the resulting message
// in a Cmd.

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func refreshCmd() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

func shellError(err error) string {
	return formatter.ErrorText(err)
}

// wizardCompleteOutput returns a wizardCompleteMsg that displays a message string.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: outputCmd(msg)}
}

// wizardErrorView returns a wizard that just shows an error and pops back.
func wizardErrorView(state *SharedState, title string, err error) View {
	form := huh.NewForm(
		huh.NewGroup(huh.NewNote().Title("Error").Description(err.Error())),
	).WithTheme(timeboxHuhTheme()).WithShowHelp(false)
	return newWizardView(state, title, form, func() tea.Cmd {
		return outputCmd(shellError(err))
	})
}

// newAddSessionView creates the wizard for a new session. Start defaults to
// the current minute so a just-finished session needs only an end time.
func newAddSessionView(state *SharedState) View {
	f := &sessionFormFields{
		start: domain.FormatTimestamp(time.Now().Truncate(time.Minute)),
	}
	return newWizardView(state, "Add Session", wizardSessionForm(f), func() tea.Cmd {
		return msgCmd(applyAddSession(state, f))
	})
}

// newEditSessionView creates the wizard for changing the session with id,
// pre-filled with its current values.
func newEditSessionView(state *SharedState, id string) View {
	s, err := state.Store.GetByID(id)
	if err != nil {
		return wizardErrorView(state, "Edit Session", err)
	}
	orig := sessionFormFieldsFrom(s)
	f := *orig
	return newWizardView(state, "Edit Session", wizardSessionForm(&f), func() tea.Cmd {
		return msgCmd(applyEditSession(state, id, orig, &f))
	})
}

// applyAddSession validates the form values as a Session and appends it.
func applyAddSession(state *SharedState, f *sessionFormFields) tea.Msg {
	s, err := domain.NewSession(f.title, f.start, f.end, f.description)
	if err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	pos, err := state.Store.Add(s)
	if err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	view := state.Store.List()[pos]
	state.SelectedID = view.ID
	return cmdOutputMsg{output: formatter.FormatSessionSaved("Added", view) + formatter.Dim("  (w to save)")}
}

// applyEditSession sends only the fields that differ from orig.
func applyEditSession(state *SharedState, id string, orig, f *sessionFormFields) tea.Msg {
	var changes domain.Fields
	if f.title != orig.title {
		changes.Title = &f.title
	}
	if f.start != orig.start {
		changes.Start = &f.start
	}
	if f.end != orig.end {
		changes.End = &f.end
	}
	if f.description != orig.description {
		changes.Description = &f.description
	}
	if changes.IsEmpty() {
		return cmdOutputMsg{output: formatter.Dim("No changes.")}
	}

	if err := state.Store.UpdateByID(id, changes); err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	i, err := state.Store.IndexOf(id)
	if err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	return cmdOutputMsg{output: formatter.FormatSessionSaved("Updated", state.Store.List()[i]) + formatter.Dim("  (w to save)")}
}

// execDeleteSession pushes a confirmation wizard and deletes the session
// with id if confirmed.
func execDeleteSession(state *SharedState, id, title string) tea.Cmd {
	var confirmed bool
	form := wizardConfirm(fmt.Sprintf("Delete %q?", title), &confirmed)
	return pushView(newWizardView(state, "Confirm Delete", form, func() tea.Cmd {
		if !confirmed {
			return outputCmd(formatter.Dim("Cancelled."))
		}
		return msgCmd(applyDeleteSession(state, id, title))
	}))
}

func applyDeleteSession(state *SharedState, id, title string) tea.Msg {
	if err := state.Store.DeleteByID(id); err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	return cmdOutputMsg{output: fmt.Sprintf("%s Deleted: %s%s",
		formatter.StyleGreen.Render("✔"), formatter.Bold(title), formatter.Dim("  (w to save)"))}
}

// saveSessions writes the whole collection to the store file.
func saveSessions(state *SharedState) tea.Msg {
	if err := state.Store.Save(context.Background(), state.StorePath); err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	state.markSynced()
	return cmdOutputMsg{output: fmt.Sprintf("%s Saved %s to %s",
		formatter.StyleGreen.Render("✔"),
		formatter.Plural(state.Store.Len(), "session", "sessions"),
		formatter.Dim(state.StorePath))}
}

// reloadSessions replaces memory with the store file. On failure memory is
// left as it was.
func reloadSessions(state *SharedState) tea.Msg {
	if err := state.Store.Load(context.Background(), state.StorePath); err != nil {
		return cmdOutputMsg{output: shellError(err)}
	}
	state.markSynced()
	return cmdOutputMsg{output: fmt.Sprintf("%s Reloaded %s",
		formatter.StyleGreen.Render("✔"),
		formatter.Plural(state.Store.Len(), "session", "sessions"))}
}

// execReload reloads immediately, or asks first when there are unsaved changes.
func execReload(state *SharedState) tea.Cmd {
	if !state.Store.Dirty() {
		return tea.Batch(msgCmd(reloadSessions(state)), refreshCmd())
	}
	var confirmed bool
	form := wizardConfirm("Discard unsaved changes and reload?", &confirmed)
	return pushView(newWizardView(state, "Confirm Reload", form, func() tea.Cmd {
		if !confirmed {
			return outputCmd(formatter.Dim("Cancelled."))
		}
		return msgCmd(reloadSessions(state))
	}))
}

// execQuit quits immediately, or asks what to do with unsaved changes.
func execQuit(state *SharedState) tea.Cmd {
	if !state.Store.Dirty() {
		return quitCmd()
	}
	var choice string
	form := wizardQuitUnsaved(&choice)
	return pushView(newWizardView(state, "Quit", form, func() tea.Cmd {
		switch choice {
		case quitSave:
			if err := state.Store.Save(context.Background(), state.StorePath); err != nil {
				return outputCmd(shellError(err))
			}
			return quitCmd()
		case quitDiscard:
			return quitCmd()
		default:
			return outputCmd(formatter.Dim("Cancelled."))
		}
	}))
}
