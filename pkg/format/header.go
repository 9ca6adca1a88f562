package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const headerTimeLayout = "Mon Jan _2 15:04:05 2006"

var headerStyle = lipgloss.NewStyle().Bold(true)

// HeaderInfo is what the title line shows
type HeaderInfo struct {
	Interval time.Duration
	Command  string
	Host     string
	Now      time.Time
}

// Header renders the title line: interval and command on the left, host and
// time on the right, padded to width. A blank line follows it.
func Header(info HeaderInfo, width int) string {
	left := fmt.Sprintf("Every %.1fs: %s", info.Interval.Seconds(), info.Command)
	right := info.Now.Format(headerTimeLayout)
	if info.Host != "" {
		right = info.Host + ": " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(left+strings.Repeat(" ", gap)+right) + "\n\n"
}
