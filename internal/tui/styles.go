package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/transcript"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	mutedColor   = lipgloss.Color("#6B7280") // Gray

	// Header styles
	headerContainerStyle = lipgloss.NewStyle().
				Background(primaryColor)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Padding(0, 1)

	headerStatsStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E0E0E0")).
				Background(primaryColor).
				Padding(0, 1)

	// Status bar style
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	errorBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(transcript.FailedColor()).
			Padding(0, 1)

	// Process list styles
	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	processIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	failedStyle = lipgloss.NewStyle().
			Foreground(transcript.FailedColor()).
			Bold(true)
)

// stateStyle returns the style for a process state label.
func stateStyle(s process.State) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(transcript.StateColor(s))
}
