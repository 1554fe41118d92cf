package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpBar displays keyboard shortcuts at the bottom of the live view.
type HelpBar struct {
	width    int
	keys     KeyBindings
	finished bool

	// Error display
	errorMsg string
}

// NewHelpBar creates a new help bar component.
func NewHelpBar() HelpBar {
	return HelpBar{
		keys: DefaultKeyBindings(),
	}
}

// SetWidth updates the help bar width.
func (h *HelpBar) SetWidth(width int) {
	h.width = width
}

// SetFinished switches the bar to its end-of-run message.
func (h *HelpBar) SetFinished(finished bool) {
	h.finished = finished
}

// SetError sets the error message to display.
func (h *HelpBar) SetError(msg string) {
	h.errorMsg = msg
}

// View renders the help bar.
func (h HelpBar) View() string {
	if h.errorMsg != "" {
		return errorBarStyle.Width(h.width).Render("Error: " + h.errorMsg)
	}

	bindings := []key.Binding{h.keys.Down, h.keys.Up, h.keys.PageDown, h.keys.Top, h.keys.Quit}
	helpText := formatHelp(bindings)
	if h.finished {
		helpText = "run finished, press q to see the summary  " + helpText
	}
	return statusStyle.Width(h.width).Render(helpText)
}

// formatHelp formats a list of key bindings as help text.
func formatHelp(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
