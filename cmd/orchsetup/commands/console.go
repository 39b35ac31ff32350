// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/phoenix-oss/orchsetup/internal/detect"
	"github.com/phoenix-oss/orchsetup/internal/orch"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Grey

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // Green

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	skipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")) // Yellow
)

// consoleEvents renders pipeline progress to the terminal. The report file
// carries the durable record; this is just live feedback.
type consoleEvents struct {
	w io.Writer
}

func newConsoleEvents(w io.Writer) *consoleEvents {
	return &consoleEvents{w: w}
}

func (c *consoleEvents) RepoStart(name, url string) {
	fmt.Fprintln(c.w, bannerStyle.Render(fmt.Sprintf("=== [%s] clone/update ===", name)))
	fmt.Fprintln(c.w, noteStyle.Render(url))
}

func (c *consoleEvents) BuildStart(name string, eco detect.Ecosystem) {
	fmt.Fprintln(c.w, bannerStyle.Render(fmt.Sprintf("=== [%s] build (%s) ===", name, eco)))
}

func (c *consoleEvents) Note(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(c.w, noteStyle.Render("  "+msg))
}

func (c *consoleEvents) RepoDone(r orch.Result) {
	switch r.Status {
	case orch.StatusSuccess:
		fmt.Fprintln(c.w, passStyle.Render(fmt.Sprintf("PASS %s (%s)", r.Name, r.Detected)))
	case orch.StatusSkipped:
		fmt.Fprintln(c.w, skipStyle.Render(fmt.Sprintf("SKIP %s", r.Name)))
	default:
		fmt.Fprintln(c.w, failStyle.Render(fmt.Sprintf("FAIL %s (%s)", r.Name, r.Detected)))
		if r.Err != "" {
			fmt.Fprintln(c.w, noteStyle.Render("  "+lastLine(r.Err)))
		}
	}
}

func lastLine(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && s[start-1] != '\n' {
		start--
	}
	return s[start:end]
}
