package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Header displays the procsim branding and run statistics.
type Header struct {
	width int

	runID      string
	total      int
	terminated int
	failed     int
	publishes  uint64
	elapsed    time.Duration
}

// NewHeader creates a new header component.
func NewHeader(total int) Header {
	return Header{total: total}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRunID shows the (short) run id once the run has finished.
func (h *Header) SetRunID(runID string) {
	h.runID = runID
}

// SetCounts updates the process statistics.
func (h *Header) SetCounts(terminated, failed int, publishes uint64) {
	h.terminated = terminated
	h.failed = failed
	h.publishes = publishes
}

// SetElapsed updates the wall-clock time shown.
func (h *Header) SetElapsed(d time.Duration) {
	h.elapsed = d
}

// View renders the header.
func (h Header) View() string {
	brand := headerBrandStyle.Render("procsim")
	if h.runID != "" {
		brand = headerBrandStyle.Render("procsim " + h.runID)
	}

	statsParts := []string{
		fmt.Sprintf("%d/%d terminated", h.terminated, h.total),
		fmt.Sprintf("%d publishes", h.publishes),
		h.elapsed.Truncate(100 * time.Millisecond).String(),
	}
	if h.failed > 0 {
		statsParts = append(statsParts, fmt.Sprintf("%d failed", h.failed))
	}
	stats := headerStatsStyle.Render(strings.Join(statsParts, "  •  "))

	spacerWidth := h.width - lipgloss.Width(brand) - lipgloss.Width(stats)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	content := lipgloss.JoinHorizontal(lipgloss.Top, brand, spacer, stats)
	return headerContainerStyle.Width(h.width).Render(content)
}
