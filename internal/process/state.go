// Package process defines the simulated process value and its lifecycle state machine.
package process

import (
	"errors"
	"fmt"
)

// State represents a process lifecycle state.
type State string

const (
	StateNew        State = "New"
	StateReady      State = "Ready"
	StateRunning    State = "Running"
	StateWaiting    State = "Waiting"
	StateTerminated State = "Terminated"
)

// States returns every lifecycle state in table order.
func States() []State {
	return []State{StateNew, StateReady, StateRunning, StateWaiting, StateTerminated}
}

// Valid reports whether s is one of the five lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateReady, StateRunning, StateWaiting, StateTerminated:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	return string(s)
}

// transitions is the legal edge table. Terminated has no outgoing edges.
var transitions = map[State][]State{
	StateNew:     {StateReady},
	StateReady:   {StateRunning, StateTerminated},
	StateRunning: {StateWaiting},
	StateWaiting: {StateReady},
}

// ErrIllegalTransition is matched by every *IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal state transition")

// IllegalTransitionError reports an attempted edge that is not in the table.
type IllegalTransitionError struct {
	ID   int
	From State
	To   State
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("process %d: illegal transition %s -> %s", e.ID, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transitions returns the legal targets from the given state.
// The returned slice is a copy.
func Transitions(from State) []State {
	out := make([]State, len(transitions[from]))
	copy(out, transitions[from])
	return out
}
