// Package output renders step announcements and the final trace report.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	urlStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Step announces a pipeline stage. Written to stderr in practice so the
// banners never mix with machine-readable stdout.
func Step(w io.Writer, desc string) {
	fmt.Fprintf(w, "\n%s\n", stepStyle.Render("=> "+desc))
}

// ReportTrace prints the final trace location and where to view it.
func ReportTrace(w io.Writer, tracePath, viewerURL string) {
	fmt.Fprintf(w, "Trace file: %s\n", pathStyle.Render(tracePath))
	fmt.Fprintf(w, "This file can be viewed using the Firefox Profiler (%s)\n", urlStyle.Render(viewerURL))
}
