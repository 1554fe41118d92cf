// Package id provides identifiers for simulation runs.
package id

import "github.com/google/uuid"

// NewRun returns a fresh run identifier (a random UUID).
func NewRun() string {
	return uuid.NewString()
}

// Short returns the first eight characters of a run id for display.
func Short(runID string) string {
	if len(runID) <= 8 {
		return runID
	}
	return runID[:8]
}
