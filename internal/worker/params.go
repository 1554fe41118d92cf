package worker

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Params controls the timing of one process lifecycle.
type Params struct {
	// Cycles is how many times the Running snapshot is published before CPU work.
	Cycles int

	CPUBase   time.Duration
	CPUOffset time.Duration
	IOBase    time.Duration
	IOScale   time.Duration
}

// DefaultParams returns the standard lifecycle: 10 dispatch cycles,
// 500 + (id + 20) ms of CPU work and 300 + id*100 ms of I/O wait.
func DefaultParams() Params {
	return Params{
		Cycles:    10,
		CPUBase:   500 * time.Millisecond,
		CPUOffset: 20 * time.Millisecond,
		IOBase:    300 * time.Millisecond,
		IOScale:   100 * time.Millisecond,
	}
}

// CPUDuration returns the busy-wait length for process id.
func (p Params) CPUDuration(id int) time.Duration {
	return p.CPUBase + p.CPUOffset + time.Duration(id)*time.Millisecond
}

// IODuration returns the I/O suspension length for process id.
func (p Params) IODuration(id int) time.Duration {
	return p.IOBase + time.Duration(id)*p.IOScale
}

// Fault selects a deliberate failure injected into a worker.
type Fault int

const (
	FaultNone Fault = iota
	// FaultIllegalTransition attempts Waiting -> Running after the I/O phase.
	FaultIllegalTransition
	// FaultPanic panics halfway through the CPU phase.
	FaultPanic
)

// ErrUnknownFault is returned by ParseFault for unrecognized names.
var ErrUnknownFault = errors.New("unknown fault kind")

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultIllegalTransition:
		return "illegal"
	case FaultPanic:
		return "panic"
	default:
		return fmt.Sprintf("Fault(%d)", int(f))
	}
}

// ParseFault converts "none", "illegal" or "panic" (case-insensitive) to a Fault.
func ParseFault(s string) (Fault, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return FaultNone, nil
	case "illegal":
		return FaultIllegalTransition, nil
	case "panic":
		return FaultPanic, nil
	default:
		return FaultNone, fmt.Errorf("%w: %q", ErrUnknownFault, s)
	}
}
