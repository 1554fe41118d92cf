// Package transcript prints one line per published snapshot while a run is in
// progress.
package transcript

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/registry"
)

// Printer writes transcript lines to an io.Writer. It is safe to attach to a
// registry shared by many workers: each line is written in a single call.
type Printer struct {
	mu sync.Mutex
	// +checklocks:mu
	w io.Writer

	label lipgloss.Style
	state map[process.State]lipgloss.Style
	muted lipgloss.Style
}

// New creates a printer for w. Colors are only emitted when w is a terminal
// that supports them.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	p := &Printer{
		w:     w,
		label: r.NewStyle().Bold(true),
		muted: r.NewStyle().Foreground(mutedColor),
		state: make(map[process.State]lipgloss.Style),
	}
	for _, s := range process.States() {
		p.state[s] = r.NewStyle().Foreground(StateColor(s))
	}
	p.state[process.StateTerminated] = p.state[process.StateTerminated].Bold(true)
	return p
}

// Attach subscribes the printer to reg and returns the unsubscribe function.
func (p *Printer) Attach(reg *registry.Registry) (detach func()) {
	return reg.OnUpdate(p.Observe)
}

// Observe prints the line for one registry update.
func (p *Printer) Observe(u registry.Update) {
	line := p.Line(u.Process)

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}

// Line formats a snapshot:
//
//	Process 2: Waiting (CPU time: 522ms)
//	Process 2: Ready (I/O time: 500ms)
//	Process 2: Terminated (Total CPU: 522ms, Total I/O: 500ms)
//
// Ready and Running snapshots before any work carry no detail.
func (p *Printer) Line(proc process.Process) string {
	head := p.label.Render(fmt.Sprintf("Process %d:", proc.ID)) + " " + p.styleFor(proc.State).Render(proc.State.String())

	detail := Detail(proc)
	if detail == "" {
		return head
	}
	return head + " " + p.muted.Render("("+detail+")")
}

// Detail returns the parenthesized part of a transcript line without the
// parentheses, or "" when the state carries no timing.
func Detail(proc process.Process) string {
	switch proc.State {
	case process.StateWaiting:
		return fmt.Sprintf("CPU time: %dms", process.Millis(proc.CPUTime))
	case process.StateReady:
		if proc.IOTime > 0 {
			return fmt.Sprintf("I/O time: %dms", process.Millis(proc.IOTime))
		}
	case process.StateTerminated:
		return fmt.Sprintf("Total CPU: %dms, Total I/O: %dms",
			process.Millis(proc.TotalCPU), process.Millis(proc.TotalIO))
	}
	return ""
}

func (p *Printer) styleFor(s process.State) lipgloss.Style {
	if st, ok := p.state[s]; ok {
		return st
	}
	return p.muted
}
