package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// timeboxHuhTheme returns a custom huh theme using the Gruvbox palette.
func timeboxHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// sessionFormFields holds form-bound values for the add and edit wizards.
type sessionFormFields struct {
	title       string
	start       string
	end         string
	description string
}

func sessionFormFieldsFrom(s *domain.Session) *sessionFormFields {
	r := s.ToRecord()
	return &sessionFormFields{
		title:       r.Title,
		start:       r.StartTime,
		end:         r.EndTime,
		description: r.Description,
	}
}

// wizardSessionForm builds the four-field session form. Each field checks
// itself as it is edited; end is also checked against the current start.
func wizardSessionForm(f *sessionFormFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(validateTitle),
			huh.NewInput().
				Title("Start Time").
				Description("YYYY-MM-DDTHH:MM:SS").
				Placeholder(domain.TimestampLayout).
				Value(&f.start).
				Validate(validateTimestamp),
			huh.NewInput().
				Title("End Time").
				Description("YYYY-MM-DDTHH:MM:SS").
				Placeholder(domain.TimestampLayout).
				Value(&f.end).
				Validate(func(s string) error { return validateEnd(f.start, s) }),
			huh.NewText().
				Title("Description (optional)").
				Value(&f.description),
		),
	).WithTheme(timeboxHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(timeboxHuhTheme()).WithShowHelp(false)
}

const (
	quitSave    = "save"
	quitDiscard = "discard"
	quitCancel  = "cancel"
)

// wizardQuitUnsaved asks what to do with unsaved changes on quit.
func wizardQuitUnsaved(result *string) *huh.Form {
	*result = quitSave
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("You have unsaved changes").
				Options(
					huh.NewOption("Save and quit", quitSave),
					huh.NewOption("Quit without saving", quitDiscard),
					huh.NewOption("Keep editing", quitCancel),
				).
				Value(result),
		),
	).WithTheme(timeboxHuhTheme()).WithShowHelp(false)
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateTimestamp(s string) error {
	if _, err := domain.ParseTimestamp(s); err != nil {
		return errors.New("use YYYY-MM-DDTHH:MM:SS")
	}
	return nil
}

func validateEnd(start, end string) error {
	if err := validateTimestamp(end); err != nil {
		return err
	}
	st, err := domain.ParseTimestamp(start)
	if err != nil {
		// Reported on the start field.
		return nil
	}
	et, _ := domain.ParseTimestamp(end)
	if et.Before(st) {
		return errors.New("end time must not be before start time")
	}
	return nil
}
