package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/service"
)

// resolvePosition turns a 1-based session number as typed on the command
// line ("3" or "#3") into a 0-based manager index.
func resolvePosition(sessions service.SessionReader, input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(input), "#"))
	if err != nil || n <= 0 {
		return -1, fmt.Errorf("invalid session number %q: use a number from `timebox list`", input)
	}
	if n > sessions.Len() {
		return -1, fmt.Errorf("no session #%d (%s): %w", n,
			formatter.Plural(sessions.Len(), "session", "sessions"), &domain.IndexError{Index: n - 1, Len: sessions.Len()})
	}
	return n - 1, nil
}
