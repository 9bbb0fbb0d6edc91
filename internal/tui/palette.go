package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to the terminal background so the widget stays readable on
// light themes too.
var (
	ColorInk       = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#ECEFF4"}
	ColorDim       = lipgloss.AdaptiveColor{Light: "#9099A8", Dark: "#6C7380"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#3B7E7D", Dark: "#8FBCBB"}
	ColorAccentAlt = lipgloss.AdaptiveColor{Light: "#4C7AA5", Dark: "#81A1C1"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#5E7F47", Dark: "#A3BE8C"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "#B25D38", Dark: "#D08770"}
)
