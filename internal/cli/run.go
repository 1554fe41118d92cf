package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/procsim/internal/config"
	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/history"
	"github.com/tessro/procsim/internal/registry"
	"github.com/tessro/procsim/internal/report"
	"github.com/tessro/procsim/internal/tracing"
	"github.com/tessro/procsim/internal/transcript"
	"github.com/tessro/procsim/internal/tui"
	"github.com/tessro/procsim/internal/version"
)

// ErrRunFailed is returned when at least one process did not terminate cleanly.
var ErrRunFailed = errors.New("simulation run failed")

var (
	runProcesses   int
	runCycles      int
	runCPUBase     time.Duration
	runCPUOffset   time.Duration
	runIOBase      time.Duration
	runIOScale     time.Duration
	runJoinTimeout time.Duration
	runFaults      []string
	runFormat      string
	runOutput      string
	runQuiet       bool
	runTUI         bool
	runVerify      bool
	runTrace       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long: "Run every simulated process through its lifecycle in parallel, print each transition " +
		"as it happens, then print a summary. Exits non-zero if any process failed.",
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := report.ParseFormat(runFormat)
	if err != nil {
		return err
	}
	faults, err := config.ParseFaults(runFaults, cfg.Processes)
	if err != nil {
		return err
	}

	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if runTrace != "" {
		shutdown, err := startTracing(runTrace)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("trace shutdown failed", "error", err)
			}
		}()
	}

	reg := registry.New()
	var rec *history.Recorder
	if runVerify {
		rec = history.NewRecorder()
		rec.Attach(reg)
	}

	coord := coordinator.New(coordinator.Config{
		Processes:   cfg.Processes,
		Params:      cfg.WorkerParams(),
		Faults:      faults,
		JoinTimeout: cfg.JoinTimeout.Duration,
	}, reg)

	out := cmd.OutOrStdout()
	var rep *coordinator.Report
	if runTUI {
		rep, err = runWithTUI(ctx, coord, reg, cfg.Processes)
	} else {
		detach := func() {}
		if !runQuiet {
			detach = transcript.New(out).Attach(reg)
		}
		rep, err = coord.Run(ctx)
		// Workers abandoned at the join timeout may still publish.
		detach()
	}
	if err != nil {
		return err
	}

	if err := writeSummary(out, rep, format); err != nil {
		return err
	}

	var errs []error
	if rec != nil {
		if err := rec.Verify(cfg.Processes); err != nil {
			errs = append(errs, fmt.Errorf("lifecycle verification: %w", err))
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Lifecycle verified for %d processes.\n", cfg.Processes)
		}
	}
	if failed := rep.Failed(); len(failed) > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d processes: %w",
			ErrRunFailed, len(failed), cfg.Processes, rep.Err()))
	}
	return errors.Join(errs...)
}

// applyRunFlags overlays explicitly set flags on the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("processes") {
		cfg.Processes = runProcesses
	}
	if flags.Changed("cycles") {
		cfg.Lifecycle.Cycles = runCycles
	}
	if flags.Changed("cpu-base") {
		cfg.Lifecycle.CPUBaseMS = int(runCPUBase.Milliseconds())
	}
	if flags.Changed("cpu-offset") {
		cfg.Lifecycle.CPUOffsetMS = int(runCPUOffset.Milliseconds())
	}
	if flags.Changed("io-base") {
		cfg.Lifecycle.IOBaseMS = int(runIOBase.Milliseconds())
	}
	if flags.Changed("io-scale") {
		cfg.Lifecycle.IOScaleMS = int(runIOScale.Milliseconds())
	}
	if flags.Changed("join-timeout") {
		cfg.JoinTimeout.Duration = runJoinTimeout
	}
}

// startTracing writes spans for this run to path.
func startTracing(path string) (func(context.Context) error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	shutdown, err := tracing.Init(version.Name, version.Version, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	return func(ctx context.Context) error {
		err := shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// runWithTUI runs the simulation in the background while the live view is up.
// Quitting the view early does not stop the run; the summary still follows.
func runWithTUI(ctx context.Context, coord *coordinator.Coordinator, reg *registry.Registry, n int) (*coordinator.Report, error) {
	feed := tui.NewFeed()
	detach := feed.Attach(reg)
	defer detach()

	type outcome struct {
		rep *coordinator.Report
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		rep, err := coord.Run(ctx)
		feed.Finish(rep, err)
		done <- outcome{rep, err}
	}()

	if err := tui.Run(feed, n); err != nil {
		slog.Error("live view failed", "error", err)
	}
	res := <-done
	return res.rep, res.err
}

// writeSummary renders the report to --output, or to out after a blank line.
func writeSummary(out io.Writer, rep *coordinator.Report, format report.Format) error {
	if runOutput == "" {
		if !runQuiet && !runTUI {
			fmt.Fprintln(out)
		}
		return report.Render(out, rep, format)
	}

	f, err := os.Create(runOutput)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := report.Render(f, rep, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	fmt.Fprintf(out, "Summary written to %s\n", runOutput)
	return nil
}

func init() {
	f := runCmd.Flags()
	f.IntVarP(&runProcesses, "processes", "n", config.DefaultProcesses, "number of simulated processes")
	f.IntVar(&runCycles, "cycles", config.DefaultCycles, "times each process publishes Running before CPU work")
	f.DurationVar(&runCPUBase, "cpu-base", config.DefaultCPUBaseMS*time.Millisecond, "base CPU burst")
	f.DurationVar(&runCPUOffset, "cpu-offset", config.DefaultCPUOffsetMS*time.Millisecond, "CPU burst offset (process id adds 1ms each)")
	f.DurationVar(&runIOBase, "io-base", config.DefaultIOBaseMS*time.Millisecond, "base I/O wait")
	f.DurationVar(&runIOScale, "io-scale", config.DefaultIOScaleMS*time.Millisecond, "extra I/O wait per process id")
	f.DurationVar(&runJoinTimeout, "join-timeout", 0, "give up on workers after this long (0 waits forever)")
	f.StringArrayVar(&runFaults, "fault", nil, "inject a fault as <id>=<illegal|panic> (repeatable)")
	f.StringVar(&runFormat, "format", string(report.FormatText), "summary format: text, markdown, html, yaml, json")
	f.StringVarP(&runOutput, "output", "o", "", "write the summary to a file instead of stdout")
	f.BoolVarP(&runQuiet, "quiet", "q", false, "do not print transitions as they happen")
	f.BoolVar(&runTUI, "tui", false, "show a live dashboard instead of the transcript")
	f.BoolVar(&runVerify, "verify", false, "audit every published snapshot after the run")
	f.StringVar(&runTrace, "trace", "", "write OpenTelemetry spans as JSON to this file")
	runCmd.MarkFlagsMutuallyExclusive("quiet", "tui")
	rootCmd.AddCommand(runCmd)
}
