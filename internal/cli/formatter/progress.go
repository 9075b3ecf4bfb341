package formatter

import (
	"fmt"
	"strings"
	"time"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders the fraction part/total as a bar like [████░░░░] 45%.
// A zero or negative total renders an empty bar at 0%.
func RenderShare(part, total time.Duration, width int) string {
	var pct float64
	if total > 0 && part > 0 {
		pct = float64(part) / float64(total)
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := StyleGreen.Render(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct*100)
}
