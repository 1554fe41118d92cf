package tui

import (
	"time"

	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/process"
)

// processUpdateMsg carries the latest snapshots from the feed.
type processUpdateMsg struct {
	Processes []process.Process
	Publishes uint64
}

// runDoneMsg is sent once the coordinator has joined every worker.
type runDoneMsg struct {
	Processes []process.Process
	Publishes uint64
	Report    *coordinator.Report
	Err       error
}

// tickMsg is sent on regular intervals to drive spinner animation.
type tickMsg time.Time
