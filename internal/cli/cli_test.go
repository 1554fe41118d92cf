package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tessro/procsim/internal/config"
	"github.com/tessro/procsim/internal/paths"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/report"
)

// fastRun keeps simulated work to a few milliseconds per process.
var fastRun = []string{
	"run", "--cycles", "2",
	"--cpu-base", "2ms", "--cpu-offset", "0s",
	"--io-base", "1ms", "--io-scale", "1ms",
}

// resetFlags restores every flag under cmd to its default. Flag values live in
// package variables and would otherwise leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs procsim with args in an isolated PROCSIM_DIR and returns the
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(paths.EnvBaseDir, t.TempDir())
	t.Setenv(paths.EnvConfigPath, "")
	t.Setenv(paths.EnvLogPath, "")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "procsim dev (commit: unknown") {
		t.Errorf("version output = %q", out)
	}
}

func TestStates(t *testing.T) {
	out, err := execute(t, "states")
	if err != nil {
		t.Fatalf("states error = %v", err)
	}

	want := map[string]string{
		"New":        "Ready",
		"Ready":      "Running, Terminated",
		"Running":    "Waiting",
		"Waiting":    "Ready",
		"Terminated": "(terminal)",
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
		state, next := fields[0], strings.TrimSpace(fields[1])
		if want[state] != next {
			t.Errorf("state %s next = %q, want %q", state, next, want[state])
		}
		delete(want, state)
	}
	if len(want) != 0 {
		t.Errorf("states missing from output: %v", want)
	}
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	want := filepath.Join(os.Getenv(paths.EnvBaseDir), "config", "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestConfigShow(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		out, err := execute(t, "config", "show")
		if err != nil {
			t.Fatalf("config show error = %v", err)
		}
		for _, want := range []string{"processes = 6", "[lifecycle]", "cpu_base_ms = 500"} {
			if !strings.Contains(out, want) {
				t.Errorf("config show missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("file and log level override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "procsim.toml")
		if err := os.WriteFile(path, []byte("processes = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := execute(t, "config", "show", "--config", path, "--log-level", "debug")
		if err != nil {
			t.Fatalf("config show error = %v", err)
		}
		if !strings.Contains(out, "processes = 2") || !strings.Contains(out, `log_level = "debug"`) {
			t.Errorf("config show output:\n%s", out)
		}
	})
}

func TestRun_Clean(t *testing.T) {
	out, err := execute(t, append(fastRun, "-n", "3", "--verify")...)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}

	for _, want := range []string{
		"Process 0: Ready",
		"Process 2: Waiting (CPU time: 4ms)",
		"Process 2: Ready (I/O time: 3ms)",
		"Process 2: Terminated (Total CPU: 4ms, Total I/O: 3ms)",
		"Final Process States:",
		"All 3 processes terminated.",
		"Lifecycle verified for 3 processes.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procsim.toml")
	content := "processes = 2\n\n[lifecycle]\ncycles = 1\ncpu_base_ms = 1\ncpu_offset_ms = 0\nio_base_ms = 1\nio_scale_ms = 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Process 1: Terminated") || strings.Contains(out, "Process 2:") {
		t.Errorf("run output should cover exactly processes 0 and 1:\n%s", out)
	}
}

func TestRun_FaultFailsAfterSummary(t *testing.T) {
	out, err := execute(t, append(fastRun, "-n", "3", "--fault", "1=illegal", "--verify")...)
	if err == nil {
		t.Fatal("expected an error for a failed process")
	}
	if !errors.Is(err, ErrRunFailed) {
		t.Errorf("error = %v, want ErrRunFailed", err)
	}
	if !errors.Is(err, process.ErrIllegalTransition) {
		t.Errorf("error = %v, want ErrIllegalTransition", err)
	}
	if !strings.Contains(out, "1 of 3 processes failed:") {
		t.Errorf("summary not printed before failing:\n%s", out)
	}
	if !strings.Contains(out, "Process 2: Terminated") {
		t.Errorf("sibling processes should still terminate:\n%s", out)
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	out, err := execute(t, append(fastRun, "-n", "2", "--quiet", "--format", "json", "-o", path)...)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}

	if strings.Contains(out, "Process 0:") {
		t.Errorf("--quiet should suppress the transcript:\n%s", out)
	}
	if !strings.Contains(out, "Summary written to "+path) {
		t.Errorf("run output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"run_id"`) || !strings.Contains(string(data), `"outcome": "terminated"`) {
		t.Errorf("summary file:\n%s", data)
	}
}

func TestRun_Trace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	if _, err := execute(t, append(fastRun, "-n", "1", "--quiet", "--trace", path)...); err != nil {
		t.Fatalf("run error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"simulation.run", "worker.lifecycle"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("trace file missing span %q", want)
		}
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"format", []string{"--format", "csv"}, report.ErrUnknownFormat},
		{"fault out of range", []string{"-n", "3", "--fault", "5=panic"}, config.ErrFaultOutOfRange},
		{"fault kind", []string{"--fault", "0=explode"}, config.ErrInvalidFaultSpec},
		{"processes", []string{"-n", "0"}, config.ErrInvalidProcesses},
		{"cycles", []string{"--cycles", "0"}, config.ErrInvalidCycles},
		{"log level", []string{"--log-level", "loud"}, config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(append([]string{}, fastRun...), tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("run %v error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}
}
