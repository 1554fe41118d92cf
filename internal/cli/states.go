package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tessro/procsim/internal/process"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Print the process state transition table",
	Long:  "Print every process state and the states it may move to.",
	Args:  cobra.NoArgs,
	RunE:  runStates,
}

func runStates(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE\tNEXT")
	for _, s := range process.States() {
		next := "(terminal)"
		if to := process.Transitions(s); len(to) > 0 {
			names := make([]string, len(to))
			for i, t := range to {
				names[i] = t.String()
			}
			next = strings.Join(names, ", ")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s, next)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(statesCmd)
}
