package transcript

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/procsim/internal/process"
)

var (
	mutedColor      = lipgloss.Color("#6B7280") // Gray
	readyColor      = lipgloss.Color("#3B82F6") // Blue
	runningColor    = lipgloss.Color("#7C3AED") // Purple
	waitingColor    = lipgloss.Color("#F59E0B") // Amber
	terminatedColor = lipgloss.Color("#10B981") // Green
	failedColor     = lipgloss.Color("#EF4444") // Red
)

// StateColor returns the color procsim uses for s in every renderer.
func StateColor(s process.State) lipgloss.Color {
	switch s {
	case process.StateReady:
		return readyColor
	case process.StateRunning:
		return runningColor
	case process.StateWaiting:
		return waitingColor
	case process.StateTerminated:
		return terminatedColor
	default:
		return mutedColor
	}
}

// FailedColor is used for failure outcomes and error text.
func FailedColor() lipgloss.Color {
	return failedColor
}
