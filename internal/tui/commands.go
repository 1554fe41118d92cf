package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd returns a command that sends a tick after a delay.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForFeedCmd returns a command that waits for the next change on the feed.
// The run outcome takes priority over pending updates, and carries the final
// snapshots with it.
func waitForFeedCmd(f *Feed) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-f.done:
			return doneMsg(f)
		default:
		}

		select {
		case <-f.notify:
			procs, publishes := f.snapshot()
			return processUpdateMsg{Processes: procs, Publishes: publishes}
		case <-f.done:
			return doneMsg(f)
		}
	}
}

func doneMsg(f *Feed) runDoneMsg {
	procs, publishes := f.snapshot()
	report, err := f.result()
	return runDoneMsg{Processes: procs, Publishes: publishes, Report: report, Err: err}
}

// waitForFeed waits for the next change on the model's feed.
func (m Model) waitForFeed() tea.Cmd {
	return waitForFeedCmd(m.feed)
}
