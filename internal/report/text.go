package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/transcript"
)

// errorWidth is the wrap column for failure messages.
const errorWidth = 72

func renderText(w io.Writer, s Summary) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	ok := r.NewStyle().Foreground(transcript.StateColor(process.StateTerminated))
	bad := r.NewStyle().Foreground(transcript.FailedColor()).Bold(true)

	if _, err := fmt.Fprintln(w, title.Render("Final Process States:")); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PROCESS\tSTATE\tOUTCOME\tCPU\tI/O")
	for _, row := range s.Rows {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%dms\t%dms\n",
			row.ID, row.State, row.Outcome, row.TotalCPUMS, row.TotalIOMS)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "\nTotal CPU: %dms, Total I/O: %dms, elapsed %dms\n",
		s.TotalCPUMS, s.TotalIOMS, s.ElapsedMS)

	if s.Failed == 0 {
		_, err := fmt.Fprintln(w, ok.Render(fmt.Sprintf("All %d processes terminated.", s.Processes)))
		return err
	}

	_, _ = fmt.Fprintln(w, bad.Render(fmt.Sprintf("%d of %d processes failed:", s.Failed, s.Processes)))
	for _, row := range s.Rows {
		if row.OK() {
			continue
		}
		msg := indent.String(wordwrap.String(row.Error, errorWidth), 4)
		if _, err := fmt.Fprintf(w, "  process %d (%s):\n%s\n", row.ID, row.Outcome, msg); err != nil {
			return err
		}
	}
	return nil
}
