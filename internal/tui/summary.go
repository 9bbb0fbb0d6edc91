package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
}

var (
	summaryLabelStyle = lipgloss.NewStyle().Foreground(ColorDim).Align(lipgloss.Right)
	summaryValueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorDim).Padding(0, 1)
)

// RenderSummary draws the scrub outcome as a bordered label/value card.
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		label := summaryLabelStyle.Width(labelWidth).Render(row.Label)
		lines = append(lines, label+"  "+summaryValueStyle.Render(row.Value))
	}

	return summaryBoxStyle.Render(strings.Join(lines, "\n"))
}
