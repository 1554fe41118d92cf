package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/registry"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_LoadingUntilSized(t *testing.T) {
	m := New(NewFeed(), 3)
	assert.Equal(t, "Loading...", m.View())

	m = sized(t, m)
	view := m.View()
	assert.Contains(t, view, "procsim")
	assert.Contains(t, view, "Process 0")
	assert.Contains(t, view, "Process 2")
	assert.Contains(t, view, "0/3 terminated")
}

func TestModel_ProcessUpdate(t *testing.T) {
	m := sized(t, New(NewFeed(), 2))

	m, cmd := send(t, m, processUpdateMsg{
		Processes: []process.Process{
			{ID: 0, State: process.StateWaiting, CPUTime: 520 * time.Millisecond, TotalCPU: 520 * time.Millisecond},
			{ID: 1, State: process.StateTerminated, TotalCPU: 521 * time.Millisecond, TotalIO: 400 * time.Millisecond},
			{ID: 7, State: process.StateReady},
		},
		Publishes: 12,
	})
	assert.NotNil(t, cmd, "model keeps listening to the feed")

	view := m.View()
	assert.Contains(t, view, "CPU time: 520ms")
	assert.Contains(t, view, "Total CPU: 521ms, Total I/O: 400ms")
	assert.Contains(t, view, "1/2 terminated")
	assert.Contains(t, view, "12 publishes")
	assert.NotContains(t, view, "Process 7")
}

func TestModel_RunDone(t *testing.T) {
	m := sized(t, New(NewFeed(), 2))

	report := &coordinator.Report{
		RunID:   "0f8fad5b-d9cb-469f-a165-70867728950e",
		Elapsed: time.Second,
		Entries: []coordinator.Entry{
			{Process: process.Process{ID: 0, State: process.StateTerminated}, Outcome: coordinator.OutcomeTerminated},
			{
				Process: process.Process{ID: 1, State: process.StateWaiting},
				Outcome: coordinator.OutcomeFailed,
				Err:     errors.New("process 1: illegal transition Waiting -> Running"),
			},
		},
	}
	m, _ = send(t, m, runDoneMsg{Report: report, Publishes: 20})

	assert.True(t, m.Finished())
	view := m.View()
	assert.Contains(t, view, "procsim 0f8fad5b")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "failed: process 1: illegal transition")
	assert.Contains(t, view, "run finished")

	// Ticks stop once the run is over.
	_, cmd := send(t, m, tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestModel_RunError(t *testing.T) {
	m := sized(t, New(NewFeed(), 1))
	m, _ = send(t, m, runDoneMsg{Err: errors.New("read registry: boom")})

	assert.Contains(t, m.View(), "Error: read registry: boom")
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, New(NewFeed(), 1))

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_TickAdvancesSpinner(t *testing.T) {
	m := sized(t, New(NewFeed(), 1))
	m, cmd := send(t, m, tickMsg(time.Now()))

	assert.Equal(t, 1, m.spinnerFrame)
	assert.NotNil(t, cmd)
}

func TestProcessList_Scrolling(t *testing.T) {
	l := NewProcessList(10)
	l.SetSize(80, 4)

	assert.Equal(t, 4, strings.Count(l.View(), "\n")+1)
	assert.Contains(t, l.View(), "Process 0")

	l.ScrollBy(3)
	assert.Contains(t, l.View(), "Process 3")
	assert.NotContains(t, l.View(), "Process 0")

	l.ScrollBottom()
	assert.Equal(t, 6, l.offset)
	assert.Contains(t, l.View(), "Process 9")

	l.ScrollBy(100)
	assert.Equal(t, 6, l.offset)

	l.ScrollTop()
	assert.Equal(t, 0, l.offset)
	l.ScrollBy(-5)
	assert.Equal(t, 0, l.offset)
}

func TestFeed_CoalescesUpdates(t *testing.T) {
	reg := registry.New()
	feed := NewFeed()
	feed.Attach(reg)

	p := process.New(0)
	require.NoError(t, p.Transition(process.StateReady))
	require.NoError(t, reg.Put(p))
	require.NoError(t, p.Transition(process.StateRunning))
	require.NoError(t, reg.Put(p))

	msg := waitForFeedCmd(feed)()
	update, ok := msg.(processUpdateMsg)
	require.True(t, ok)
	require.Len(t, update.Processes, 1)
	assert.Equal(t, process.StateRunning, update.Processes[0].State)
	assert.Equal(t, uint64(2), update.Publishes)
}

func TestFeed_FinishWins(t *testing.T) {
	feed := NewFeed()
	feed.Observe(registry.Update{Process: process.Process{ID: 0, State: process.StateReady}, Seq: 1})

	report := &coordinator.Report{RunID: "r"}
	feed.Finish(report, nil)
	feed.Finish(nil, errors.New("ignored"))

	msg := waitForFeedCmd(feed)()
	done, ok := msg.(runDoneMsg)
	require.True(t, ok)
	assert.Same(t, report, done.Report)
	assert.NoError(t, done.Err)
	assert.Len(t, done.Processes, 1)
}

func TestFormatHelp(t *testing.T) {
	keys := DefaultKeyBindings()
	assert.Equal(t, "q: quit  j: down", formatHelp([]key.Binding{keys.Quit, keys.Down}))
}
