package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/service"
)

// FormatSessionList renders sessions as a numbered table inside a box.
// Numbers are 1-based, matching the command-line positions.
func FormatSessionList(views []service.SessionView, total time.Duration) string {
	if len(views) == 0 {
		return RenderBox("Sessions", Dim("No sessions yet. Add one with `timebox add`."))
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			Dim(strconv.Itoa(v.Position + 1)),
			Bold(v.Title),
			domain.FormatTimestamp(v.Start),
			domain.FormatTimestamp(v.End),
			StyleGreen.Render(FormatDuration(v.Duration)),
		})
	}
	table := Table{
		Headers:    []string{"#", "TITLE", "START", "END", "DURATION"},
		Rows:       rows,
		RightAlign: []int{0, 4},
	}.Render()

	footer := Dim(fmt.Sprintf("%s · total %s", Plural(len(views), "session", "sessions"), FormatDuration(total)))
	return RenderBox("Sessions", table+"\n"+footer)
}

// FormatSessionDetail renders the labelled fields of one session. total is
// the duration of all sessions; now is used for the relative "... ago" hint.
func FormatSessionDetail(v service.SessionView, total time.Duration, now time.Time) string {
	var b strings.Builder
	label := func(name string) string { return StyleDim.Render(fmt.Sprintf("%-15s", name+":")) }

	b.WriteString(label("Title") + " " + Bold(v.Title) + "\n")
	b.WriteString(label("Start Time") + " " + StyleFg.Render(domain.FormatTimestamp(v.Start)) +
		"  " + Dim("("+RelativeTimeFrom(v.Start, now)+")") + "\n")
	b.WriteString(label("End Time") + " " + StyleFg.Render(domain.FormatTimestamp(v.End)) + "\n")
	b.WriteString(label("Total Duration") + " " + StyleGreen.Render(FormatDuration(v.Duration)) + "\n")
	b.WriteString(label("Share") + " " + RenderShare(v.Duration, total, 16) + " " + Dim("of "+FormatDuration(total)) + "\n")

	desc := v.Description
	if strings.TrimSpace(desc) == "" {
		desc = Dim("--")
	}
	b.WriteString(label("Description") + " " + desc)
	return b.String()
}

// FormatSessionSaved is the confirmation line printed after a CLI mutation.
func FormatSessionSaved(verb string, v service.SessionView) string {
	return StyleGreen.Render("✔ "+verb) + " " + Bold(v.Title) + " " +
		Dim(fmt.Sprintf("#%d · %s", v.Position+1, FormatDuration(v.Duration)))
}
