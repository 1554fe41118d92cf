// Package tui provides the live Bubble Tea view of a running simulation.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/id"
)

// Model is the main Bubble Tea model for the live view.
type Model struct {
	// Layout
	width  int
	height int
	ready  bool

	// Components
	header  Header
	list    ProcessList
	helpBar HelpBar

	feed    *Feed
	started time.Time

	// Spinner animation frame counter
	spinnerFrame int

	// Set once the run has finished
	finished bool
	report   *coordinator.Report
	err      error

	keys KeyBindings
}

// New creates a model for a run of n processes fed by feed.
func New(feed *Feed, n int) Model {
	return Model{
		header:  NewHeader(n),
		list:    NewProcessList(n),
		helpBar: NewHelpBar(),
		feed:    feed,
		started: time.Now(),
		keys:    DefaultKeyBindings(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.waitForFeed())
}

// Finished reports whether the run outcome has arrived.
func (m Model) Finished() bool {
	return m.finished
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.header.View(), m.list.View(), m.helpBar.View())
}

// Run shows the live view until the user quits. It returns once the view has
// exited; the run itself may still be in progress.
func Run(feed *Feed, n int) error {
	p := tea.NewProgram(
		New(feed, n),
		tea.WithAltScreen(),
	)
	slog.Debug("tui.Run: running program", "processes", n)
	_, err := p.Run()
	slog.Debug("tui.Run: program exited", "error", err)
	return err
}

func (m *Model) finish(msg runDoneMsg) {
	m.finished = true
	m.report = msg.Report
	m.err = msg.Err

	m.list.Apply(msg.Processes)
	if msg.Report != nil {
		m.list.SetOutcomes(msg.Report.Entries)
		m.header.SetRunID(id.Short(msg.Report.RunID))
		m.header.SetElapsed(msg.Report.Elapsed)
	}
	if msg.Err != nil {
		m.helpBar.SetError(msg.Err.Error())
	}
	m.helpBar.SetFinished(true)
	m.refreshCounts(msg.Publishes)
}

func (m *Model) refreshCounts(publishes uint64) {
	terminated, failed := m.list.Counts()
	m.header.SetCounts(terminated, failed, publishes)
}
