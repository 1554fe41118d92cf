package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tessro/procsim/internal/worker"
)

// ParseFaults turns "<id>=<kind>" specs into a fault map for a run with the
// given number of processes.
func ParseFaults(specs []string, processes int) (map[int]worker.Fault, error) {
	faults := make(map[int]worker.Fault, len(specs))
	for _, spec := range specs {
		idPart, kindPart, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, &ValidationError{
				Field:   "fault",
				Value:   spec,
				Message: "must be <id>=<illegal|panic>",
				Err:     ErrInvalidFaultSpec,
			}
		}

		id, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			return nil, &ValidationError{
				Field:   "fault",
				Value:   spec,
				Message: "id must be an integer",
				Err:     ErrInvalidFaultSpec,
			}
		}
		if id < 0 || id >= processes {
			return nil, &ValidationError{
				Field:   "fault",
				Value:   spec,
				Message: fmt.Sprintf("id must be between 0 and %d", processes-1),
				Err:     ErrFaultOutOfRange,
			}
		}
		if _, dup := faults[id]; dup {
			return nil, &ValidationError{
				Field:   "fault",
				Value:   spec,
				Message: "id given more than once",
				Err:     ErrDuplicateFaultID,
			}
		}

		kind, err := worker.ParseFault(kindPart)
		if err != nil {
			return nil, &ValidationError{
				Field:   "fault",
				Value:   spec,
				Message: "kind must be illegal or panic",
				Err:     ErrInvalidFaultSpec,
			}
		}
		if kind != worker.FaultNone {
			faults[id] = kind
		}
	}
	return faults, nil
}
