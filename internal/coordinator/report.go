package coordinator

import (
	"errors"
	"time"

	"github.com/tessro/procsim/internal/process"
)

// Outcome classifies how a worker finished.
type Outcome string

const (
	OutcomeTerminated Outcome = "terminated"
	OutcomeFailed     Outcome = "failed"
	OutcomeJoinFailed Outcome = "join-failed"
	OutcomeTimedOut   Outcome = "timed-out"
)

// Entry is the final record for one process id.
type Entry struct {
	// Process is the last snapshot the registry holds for this id. For a
	// worker that never published, only ID is set.
	Process process.Process
	Outcome Outcome
	Err     error
}

// OK reports whether the process terminated cleanly.
func (e Entry) OK() bool {
	return e.Outcome == OutcomeTerminated
}

// Report is the aggregate result of one run.
type Report struct {
	RunID     string
	Processes int
	StartedAt time.Time
	Elapsed   time.Duration
	// Entries holds one entry per id, ordered by id.
	Entries []Entry
}

// Failed returns the entries that did not terminate cleanly.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Err joins the errors of every failed entry, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, e := range r.Failed() {
		errs = append(errs, e.Err)
	}
	return errors.Join(errs...)
}

// Totals returns the summed CPU and I/O time across all entries.
func (r *Report) Totals() (cpu, io time.Duration) {
	for _, e := range r.Entries {
		cpu += e.Process.TotalCPU
		io += e.Process.TotalIO
	}
	return cpu, io
}
