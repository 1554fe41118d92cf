// Package report renders the final summary of a simulation run.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/process"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned for format names Render does not support.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatHTML, FormatYAML, FormatJSON}
}

// ParseFormat converts a name such as "md" or "JSON" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Summary is the serializable form of a coordinator.Report.
// Durations are whole milliseconds.
type Summary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Processes  int       `json:"processes" yaml:"processes"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	ElapsedMS  int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
	TotalCPUMS int64     `json:"total_cpu_ms" yaml:"total_cpu_ms"`
	TotalIOMS  int64     `json:"total_io_ms" yaml:"total_io_ms"`
	Failed     int       `json:"failed" yaml:"failed"`
	Rows       []Row     `json:"entries" yaml:"entries"`
}

// Row is one process in a Summary.
type Row struct {
	ID         int    `json:"id" yaml:"id"`
	State      string `json:"state" yaml:"state"`
	Outcome    string `json:"outcome" yaml:"outcome"`
	CPUMS      int64  `json:"cpu_ms" yaml:"cpu_ms"`
	IOMS       int64  `json:"io_ms" yaml:"io_ms"`
	TotalCPUMS int64  `json:"total_cpu_ms" yaml:"total_cpu_ms"`
	TotalIOMS  int64  `json:"total_io_ms" yaml:"total_io_ms"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the row's process terminated cleanly.
func (r Row) OK() bool {
	return r.Outcome == string(coordinator.OutcomeTerminated)
}

// Summarize converts a report into its serializable form.
func Summarize(r *coordinator.Report) Summary {
	cpu, wait := r.Totals()
	s := Summary{
		RunID:      r.RunID,
		Processes:  r.Processes,
		StartedAt:  r.StartedAt.UTC(),
		ElapsedMS:  process.Millis(r.Elapsed),
		TotalCPUMS: process.Millis(cpu),
		TotalIOMS:  process.Millis(wait),
		Failed:     len(r.Failed()),
		Rows:       make([]Row, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		row := Row{
			ID:         e.Process.ID,
			State:      e.Process.State.String(),
			Outcome:    string(e.Outcome),
			CPUMS:      process.Millis(e.Process.CPUTime),
			IOMS:       process.Millis(e.Process.IOTime),
			TotalCPUMS: process.Millis(e.Process.TotalCPU),
			TotalIOMS:  process.Millis(e.Process.TotalIO),
		}
		if e.Err != nil {
			row.Error = e.Err.Error()
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *coordinator.Report, f Format) error {
	s := Summarize(r)
	switch f {
	case FormatText, "":
		return renderText(w, s)
	case FormatMarkdown:
		return renderMarkdown(w, s)
	case FormatHTML:
		return renderHTML(w, s)
	case FormatYAML:
		return renderYAML(w, s)
	case FormatJSON:
		return renderJSON(w, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
