package process

import "time"

// Process is the simulated process record. It holds no pointers, so plain
// assignment produces an independent snapshot.
type Process struct {
	ID    int
	State State

	// CPUTime and IOTime cover the current lifecycle cycle.
	CPUTime time.Duration
	IOTime  time.Duration

	// TotalCPU and TotalIO accumulate across all phases and never decrease.
	TotalCPU time.Duration
	TotalIO  time.Duration
}

// New returns a process in the New state.
func New(id int) Process {
	return Process{ID: id, State: StateNew}
}

// Transition moves p to the target state. An illegal edge returns an
// *IllegalTransitionError and leaves p untouched.
func (p *Process) Transition(to State) error {
	if !CanTransition(p.State, to) {
		return &IllegalTransitionError{ID: p.ID, From: p.State, To: to}
	}
	p.State = to
	return nil
}

// AddCPU records a completed CPU phase of length d.
func (p *Process) AddCPU(d time.Duration) {
	p.CPUTime += d
	p.TotalCPU += d
}

// AddIO records a completed I/O phase of length d.
func (p *Process) AddIO(d time.Duration) {
	p.IOTime += d
	p.TotalIO += d
}

// Millis returns d in whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}
