package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"metawash/internal/widget"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorDim)
	okStyle     = lipgloss.NewStyle().Foreground(ColorSuccess)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarn)
	promptStyle = lipgloss.NewStyle().Foreground(ColorAccentAlt)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{titleStyle.Render("metawash"), ""}

	switch {
	case m.inputting || m.widget.State() == widget.StateEmpty:
		lines = append(lines,
			promptStyle.Render("file to scrub:")+" "+m.input+"_",
			dimStyle.Render("type a path and press enter"),
		)

	case m.widget.State() == widget.StateLoaded:
		lines = append(lines, m.fileLines()...)
		lines = append(lines, "", dimStyle.Render("[s] scrub  [n] new file  [r] reset  [q] quit"))

	case m.widget.State() == widget.StateProcessing:
		lines = append(lines, m.fileLines()...)
		lines = append(lines, "", warnStyle.Render("scrubbing..."))

	case m.widget.State() == widget.StateDone:
		res := m.widget.Result()
		rows := []SummaryRow{
			{Label: "Output type", Value: res.MediaType},
			{Label: "Output size (bytes)", Value: fmt.Sprintf("%d", len(res.Data))},
			{Label: "Bytes removed", Value: fmt.Sprintf("%d", res.SizeDelta)},
			{Label: "Processing time", Value: res.Elapsed.String()},
		}
		if res.Removed != "" {
			rows = append(rows, SummaryRow{Label: "Removed", Value: res.Removed})
		}
		lines = append(lines, okStyle.Render("scrub complete"), "", RenderSummary(rows))
		if m.savedPath != "" {
			lines = append(lines, okStyle.Render("saved to "+m.savedPath))
		}
		lines = append(lines, "", dimStyle.Render("[d] download  [s] scrub again  [n] new file  [r] reset  [q] quit"))

	case m.widget.State() == widget.StateError:
		lines = append(lines, m.fileLines()...)
		lines = append(lines, "", dimStyle.Render("[s] retry  [n] new file  [r] reset  [q] quit"))
	}

	if m.status != "" {
		lines = append(lines, "", errorStyle.Render(m.status))
	}
	if m.warn != "" {
		lines = append(lines, "", dimStyle.Render(m.warn))
	}

	return strings.Join(lines, "\n")
}

// fileLines renders the local preview: file facts plus the metadata found by
// the pre-upload scan.
func (m Model) fileLines() []string {
	f := m.widget.File()
	if f == nil {
		return nil
	}

	lines := []string{
		labelStyle.Render(f.Name) + dimStyle.Render(fmt.Sprintf("  %s, %d bytes", f.MediaType, f.Size)),
	}
	if f.Width > 0 && f.Height > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%dx%d px", f.Width, f.Height)))
	}

	if len(m.scan) == 0 {
		lines = append(lines, dimStyle.Render("no privacy metadata found"))
		return lines
	}

	lines = append(lines, warnStyle.Render("metadata present:"))
	for _, d := range m.scan {
		lines = append(lines, "  "+labelStyle.Render(d.Category+":"))
		for _, v := range d.Values {
			lines = append(lines, "    "+dimStyle.Render("- "+v))
		}
	}
	for _, in := range m.insights {
		lines = append(lines, "  "+warnStyle.Render(in.Kind)+" "+dimStyle.Render(in.Message))
	}
	return lines
}
