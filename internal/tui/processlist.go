package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/transcript"
)

// spinnerFrames are the animation frames for processes in the CPU phase.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// processRow is one line of the process list.
type processRow struct {
	proc process.Process
	// outcome is empty until the run has finished.
	outcome coordinator.Outcome
	err     string
}

// ProcessList displays one row per process with its current state.
type ProcessList struct {
	rows         []processRow
	width        int
	height       int
	offset       int
	spinnerFrame int
}

// NewProcessList creates a list with n processes, all in New.
func NewProcessList(n int) ProcessList {
	rows := make([]processRow, n)
	for i := range rows {
		rows[i].proc = process.New(i)
	}
	return ProcessList{rows: rows}
}

// SetSize updates the list dimensions.
func (l *ProcessList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

// SetSpinnerFrame updates the current spinner animation frame.
func (l *ProcessList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// Apply replaces the displayed snapshot for every process in procs.
// Snapshots for ids outside the list are ignored.
func (l *ProcessList) Apply(procs []process.Process) {
	for _, p := range procs {
		if p.ID >= 0 && p.ID < len(l.rows) {
			l.rows[p.ID].proc = p
		}
	}
}

// SetOutcomes records the final outcome of each report entry.
func (l *ProcessList) SetOutcomes(entries []coordinator.Entry) {
	for _, e := range entries {
		id := e.Process.ID
		if id < 0 || id >= len(l.rows) {
			continue
		}
		l.rows[id].proc = e.Process
		l.rows[id].outcome = e.Outcome
		if e.Err != nil {
			l.rows[id].err = e.Err.Error()
		}
	}
}

// Counts returns how many processes are terminated and how many failed.
func (l ProcessList) Counts() (terminated, failed int) {
	for _, r := range l.rows {
		if r.proc.State == process.StateTerminated {
			terminated++
		}
		if r.outcome != "" && r.outcome != coordinator.OutcomeTerminated {
			failed++
		}
	}
	return terminated, failed
}

// ScrollBy moves the viewport by delta rows.
func (l *ProcessList) ScrollBy(delta int) {
	l.offset += delta
	l.clampOffset()
}

// ScrollTop moves the viewport to the first row.
func (l *ProcessList) ScrollTop() {
	l.offset = 0
}

// ScrollBottom moves the viewport to the last page.
func (l *ProcessList) ScrollBottom() {
	l.offset = len(l.rows)
	l.clampOffset()
}

// PageSize returns the number of visible rows.
func (l ProcessList) PageSize() int {
	if l.height <= 0 {
		return len(l.rows)
	}
	return l.height
}

func (l *ProcessList) clampOffset() {
	maxOffset := len(l.rows) - l.PageSize()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the visible rows.
func (l ProcessList) View() string {
	end := l.offset + l.PageSize()
	if end > len(l.rows) {
		end = len(l.rows)
	}

	lines := make([]string, 0, end-l.offset)
	for _, r := range l.rows[l.offset:end] {
		lines = append(lines, l.renderRow(r))
	}
	return strings.Join(lines, "\n")
}

func (l ProcessList) renderRow(r processRow) string {
	icon := l.icon(r)
	id := processIDStyle.Render(fmt.Sprintf("Process %d", r.proc.ID))
	state := stateStyle(r.proc.State).Width(len("Terminated")).Render(r.proc.State.String())

	parts := []string{icon, id, state}
	if d := transcript.Detail(r.proc); d != "" {
		parts = append(parts, detailStyle.Render(d))
	}
	if r.outcome != "" && r.outcome != coordinator.OutcomeTerminated {
		parts = append(parts, failedStyle.Render(string(r.outcome)+": "+r.err))
	}

	row := strings.Join(parts, " ")
	if l.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(l.width).Render(row)
	}
	return rowStyle.Render(row)
}

// icon returns an indicator for the row's state.
func (l ProcessList) icon(r processRow) string {
	if r.outcome != "" && r.outcome != coordinator.OutcomeTerminated {
		return failedStyle.Render("✗")
	}
	switch r.proc.State {
	case process.StateRunning:
		return stateStyle(r.proc.State).Render(spinnerFrames[l.spinnerFrame%len(spinnerFrames)])
	case process.StateWaiting:
		return stateStyle(r.proc.State).Render("◷")
	case process.StateTerminated:
		return stateStyle(r.proc.State).Render("✓")
	default:
		return stateStyle(r.proc.State).Render("○")
	}
}
