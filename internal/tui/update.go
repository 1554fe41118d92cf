package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.header.SetWidth(msg.Width)
		m.helpBar.SetWidth(msg.Width)
		// Header and help bar take one line each.
		m.list.SetSize(msg.Width, msg.Height-2)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			m.list.ScrollBy(1)
		case key.Matches(msg, m.keys.Up):
			m.list.ScrollBy(-1)
		case key.Matches(msg, m.keys.PageDown):
			m.list.ScrollBy(m.list.PageSize())
		case key.Matches(msg, m.keys.PageUp):
			m.list.ScrollBy(-m.list.PageSize())
		case key.Matches(msg, m.keys.Top):
			m.list.ScrollTop()
		case key.Matches(msg, m.keys.Bottom):
			m.list.ScrollBottom()
		}

	case processUpdateMsg:
		m.list.Apply(msg.Processes)
		m.refreshCounts(msg.Publishes)
		cmds = append(cmds, m.waitForFeed())

	case runDoneMsg:
		m.finish(msg)

	case tickMsg:
		if m.finished {
			break
		}
		// Advance spinner frame and schedule next tick
		m.spinnerFrame++
		m.list.SetSpinnerFrame(m.spinnerFrame)
		m.header.SetElapsed(time.Since(m.started))
		cmds = append(cmds, m.tickCmd())
	}

	return m, tea.Batch(cmds...)
}
