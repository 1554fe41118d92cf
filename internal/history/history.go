// Package history records every snapshot published to a registry and audits
// the recorded lifecycles.
package history

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/registry"
)

// Lifecycle is the published state sequence of a process that ran to completion,
// with repeated Running republishes collapsed.
var Lifecycle = []process.State{
	process.StateReady,
	process.StateRunning,
	process.StateWaiting,
	process.StateReady,
	process.StateTerminated,
}

// Rule names a property checked by Verify.
type Rule string

const (
	RuleMissing      Rule = "missing"
	RuleInvalidState Rule = "invalid-state"
	RuleSequence     Rule = "sequence"
	RuleMonotonic    Rule = "monotonic"
	RuleTerminal     Rule = "terminal"
)

// ErrViolation is matched by every *Violation.
var ErrViolation = errors.New("lifecycle violation")

// Violation describes one failed property for one process.
type Violation struct {
	ID     int
	Rule   Rule
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("process %d: %s: %s", v.ID, v.Rule, v.Detail)
}

func (v *Violation) Unwrap() error {
	return ErrViolation
}

// Recorder keeps an ordered log of snapshots per process id.
type Recorder struct {
	mu sync.Mutex
	// +checklocks:mu
	byID map[int][]process.Process
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{byID: make(map[int][]process.Process)}
}

// Attach subscribes the recorder to reg and returns the unsubscribe function.
func (r *Recorder) Attach(reg *registry.Registry) (detach func()) {
	return reg.OnUpdate(r.Observe)
}

// Observe records one registry update.
func (r *Recorder) Observe(u registry.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.Process.ID] = append(r.byID[u.Process.ID], u.Process)
}

// IDs returns every recorded process id in ascending order.
func (r *Recorder) IDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Snapshots returns a copy of every snapshot recorded for id, oldest first.
func (r *Recorder) Snapshots(id int) []process.Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]process.Process, len(r.byID[id]))
	copy(out, r.byID[id])
	return out
}

// Sequence returns the recorded states for id with consecutive repeats collapsed.
func (r *Recorder) Sequence(id int) []process.State {
	var seq []process.State
	for _, p := range r.Snapshots(id) {
		if len(seq) > 0 && seq[len(seq)-1] == p.State {
			continue
		}
		seq = append(seq, p.State)
	}
	return seq
}

// Verify audits processes 0..n-1 and returns every violation joined, or nil.
//
// A process that reached Terminated must show exactly Lifecycle. One that did
// not must show a prefix of it. Totals must never decrease and every state must
// be one of the five lifecycle states. A Terminated snapshot must report totals
// equal to its single CPU and I/O phase.
func (r *Recorder) Verify(n int) error {
	var errs []error
	for id := 0; id < n; id++ {
		for _, v := range r.verifyOne(id) {
			errs = append(errs, v)
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) verifyOne(id int) []*Violation {
	snaps := r.Snapshots(id)
	if len(snaps) == 0 {
		return []*Violation{{ID: id, Rule: RuleMissing, Detail: "no snapshots published"}}
	}

	var out []*Violation
	for i, p := range snaps {
		if !p.State.Valid() {
			out = append(out, &Violation{ID: id, Rule: RuleInvalidState,
				Detail: fmt.Sprintf("snapshot %d has state %q", i, p.State)})
		}
		if i == 0 {
			continue
		}
		prev := snaps[i-1]
		if p.TotalCPU < prev.TotalCPU || p.TotalIO < prev.TotalIO {
			out = append(out, &Violation{ID: id, Rule: RuleMonotonic,
				Detail: fmt.Sprintf("snapshot %d totals cpu=%v io=%v after cpu=%v io=%v",
					i, p.TotalCPU, p.TotalIO, prev.TotalCPU, prev.TotalIO)})
		}
	}

	seq := r.Sequence(id)
	terminated := seq[len(seq)-1] == process.StateTerminated
	if terminated && !equal(seq, Lifecycle) {
		out = append(out, &Violation{ID: id, Rule: RuleSequence,
			Detail: fmt.Sprintf("got %v, want %v", seq, Lifecycle)})
	}
	if !terminated && !isPrefix(seq, Lifecycle) {
		out = append(out, &Violation{ID: id, Rule: RuleSequence,
			Detail: fmt.Sprintf("%v is not a prefix of %v", seq, Lifecycle)})
	}

	if terminated {
		last := snaps[len(snaps)-1]
		if last.TotalCPU != last.CPUTime || last.TotalIO != last.IOTime {
			out = append(out, &Violation{ID: id, Rule: RuleTerminal,
				Detail: fmt.Sprintf("totals cpu=%v io=%v differ from phase cpu=%v io=%v",
					last.TotalCPU, last.TotalIO, last.CPUTime, last.IOTime)})
		}
		if last.TotalCPU <= 0 && last.TotalIO <= 0 {
			out = append(out, &Violation{ID: id, Rule: RuleTerminal, Detail: "terminated with no recorded work"})
		}
	}
	return out
}

func equal(a, b []process.State) bool {
	return len(a) == len(b) && isPrefix(a, b)
}

func isPrefix(a, b []process.State) bool {
	if len(a) > len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
