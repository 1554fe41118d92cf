package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrInvalidProcesses = errors.New("processes must be between 1 and 1000")
	ErrInvalidCycles    = errors.New("cycles must be at least 1")
	ErrNegativeDuration = errors.New("duration cannot be negative")
	ErrInvalidLogLevel  = errors.New("log level must be debug, info, warn, or error")
	ErrUnknownKey       = errors.New("unknown configuration key")
	ErrInvalidFaultSpec = errors.New("fault must be <id>=<illegal|panic>")
	ErrFaultOutOfRange  = errors.New("fault id is outside the process range")
	ErrDuplicateFaultID = errors.New("fault id given more than once")
)

// MaxProcesses is the largest supported process count.
const MaxProcesses = 1000

// validLogLevels is the list of accepted log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateProcesses validates the process count.
func ValidateProcesses(n int) error {
	if n < 1 || n > MaxProcesses {
		return &ValidationError{
			Field:   "processes",
			Value:   fmt.Sprintf("%d", n),
			Message: fmt.Sprintf("must be between 1 and %d", MaxProcesses),
			Err:     ErrInvalidProcesses,
		}
	}
	return nil
}

// ValidateCycles validates the dispatch cycle count.
func ValidateCycles(n int) error {
	if n < 1 {
		return &ValidationError{
			Field:   "lifecycle.cycles",
			Value:   fmt.Sprintf("%d", n),
			Message: "must be at least 1",
			Err:     ErrInvalidCycles,
		}
	}
	return nil
}

// ValidateMillis rejects negative millisecond values.
func ValidateMillis(field string, ms int) error {
	if ms < 0 {
		return &ValidationError{
			Field:   field,
			Value:   fmt.Sprintf("%d", ms),
			Message: "cannot be negative",
			Err:     ErrNegativeDuration,
		}
	}
	return nil
}

// ValidateLogLevel validates a log level string.
func ValidateLogLevel(level string) error {
	if !validLogLevels[strings.ToLower(level)] {
		return &ValidationError{
			Field:   "log_level",
			Value:   level,
			Message: "must be debug, info, warn, or error",
			Err:     ErrInvalidLogLevel,
		}
	}
	return nil
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	if err := ValidateProcesses(c.Processes); err != nil {
		return err
	}
	if err := ValidateLogLevel(c.GetLogLevel()); err != nil {
		return err
	}
	if c.JoinTimeout.Duration < 0 {
		return &ValidationError{
			Field:   "join_timeout",
			Value:   c.JoinTimeout.String(),
			Message: "cannot be negative",
			Err:     ErrNegativeDuration,
		}
	}

	l := c.Lifecycle
	if err := ValidateCycles(l.Cycles); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		ms   int
	}{
		{"lifecycle.cpu_base_ms", l.CPUBaseMS},
		{"lifecycle.cpu_offset_ms", l.CPUOffsetMS},
		{"lifecycle.io_base_ms", l.IOBaseMS},
		{"lifecycle.io_scale_ms", l.IOScaleMS},
	} {
		if err := ValidateMillis(f.name, f.ms); err != nil {
			return err
		}
	}
	return nil
}
