// Package coordinator runs a simulation: it spawns one worker goroutine per
// process, joins them all, and assembles the final report from the registry.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tessro/procsim/internal/id"
	"github.com/tessro/procsim/internal/logging"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/registry"
	"github.com/tessro/procsim/internal/tracing"
	"github.com/tessro/procsim/internal/worker"
	"go.opentelemetry.io/otel/attribute"
)

// Errors reported for workers that did not finish cleanly.
var (
	// ErrWorkerJoinFailed is matched by every *WorkerJoinFailedError.
	ErrWorkerJoinFailed = errors.New("worker join failed")

	// ErrWorkerTimedOut is reported for workers still running at the join deadline.
	ErrWorkerTimedOut = errors.New("worker timed out")

	// ErrNoProcesses is returned when Config.Processes is not positive.
	ErrNoProcesses = errors.New("process count must be positive")
)

// WorkerJoinFailedError reports a worker whose outcome could not be retrieved
// because it terminated abnormally.
type WorkerJoinFailedError struct {
	ID    int
	Panic any
}

func (e *WorkerJoinFailedError) Error() string {
	return fmt.Sprintf("process %d: worker terminated abnormally: %v", e.ID, e.Panic)
}

func (e *WorkerJoinFailedError) Unwrap() error {
	return ErrWorkerJoinFailed
}

// Config describes one simulation run.
type Config struct {
	// Processes is the number of workers; ids are 0..Processes-1.
	Processes int
	Params    worker.Params
	// Faults injects failures into specific process ids.
	Faults map[int]worker.Fault
	// JoinTimeout bounds the join barrier. Zero waits forever.
	JoinTimeout time.Duration
}

// Store is the shared snapshot registry workers publish into.
// *registry.Registry is the production implementation.
type Store interface {
	worker.Publisher
	SnapshotAll() ([]process.Process, error)
}

var _ Store = (*registry.Registry)(nil)

// Coordinator owns one run against one store.
type Coordinator struct {
	cfg Config
	reg Store
}

// New creates a coordinator that publishes into reg.
func New(cfg Config, reg Store) *Coordinator {
	return &Coordinator{cfg: cfg, reg: reg}
}

// result is what each worker goroutine reports exactly once.
type result struct {
	id   int
	proc process.Process
	err  error
}

// Run spawns every worker, waits for all of them, then reads the registry once.
// Worker failures are recorded per entry in the report; only a registry
// failure (or an invalid config) makes Run return an error.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	n := c.cfg.Processes
	if n <= 0 {
		return nil, ErrNoProcesses
	}

	report := &Report{
		RunID:     id.NewRun(),
		Processes: n,
		StartedAt: time.Now(),
	}
	log := slog.With("run", id.Short(report.RunID))

	ctx, span := tracing.StartSpan(ctx, "simulation.run",
		attribute.String("run.id", report.RunID),
		attribute.Int("processes", n),
	)

	log.Info("simulation starting", "processes", n, "cycles", c.cfg.Params.Cycles)

	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go c.spawn(ctx, i, results)
	}

	outcomes := c.join(results, n)
	report.Elapsed = time.Since(report.StartedAt)

	snaps, err := c.reg.SnapshotAll()
	if err != nil {
		log.Error("registry unreadable", "error", err)
		span.End(err)
		return nil, fmt.Errorf("read registry: %w", err)
	}
	byID := make(map[int]process.Process, len(snaps))
	for _, p := range snaps {
		byID[p.ID] = p
	}

	report.Entries = make([]Entry, n)
	for i := 0; i < n; i++ {
		report.Entries[i] = newEntry(i, byID, outcomes[i])
	}

	failed := len(report.Failed())
	span.SetAttributes(attribute.Int("failed", failed))
	span.End(report.Err())
	log.Info("simulation finished", "elapsed", report.Elapsed, "failed", failed)

	return report, nil
}

// spawn runs one worker and always delivers exactly one result.
func (c *Coordinator) spawn(ctx context.Context, i int, results chan<- result) {
	defer logging.LogPanic(fmt.Sprintf("worker-%d", i), func(r any) {
		results <- result{id: i, err: &WorkerJoinFailedError{ID: i, Panic: r}}
	})

	var opts []worker.Option
	if f, ok := c.cfg.Faults[i]; ok {
		opts = append(opts, worker.WithFault(f))
	}

	proc, err := worker.Run(ctx, i, c.cfg.Params, c.reg, opts...)
	results <- result{id: i, proc: proc, err: err}
}

// join collects one result per worker, indexed by id. Workers still running
// when the join timeout fires get ErrWorkerTimedOut.
func (c *Coordinator) join(results <-chan result, n int) []*result {
	outcomes := make([]*result, n)

	var deadline <-chan time.Time
	if c.cfg.JoinTimeout > 0 {
		timer := time.NewTimer(c.cfg.JoinTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for received := 0; received < n; {
		select {
		case r := <-results:
			outcomes[r.id] = &r
			received++
		case <-deadline:
			for i := range outcomes {
				if outcomes[i] == nil {
					slog.Warn("worker did not finish before join timeout", "process", i, "timeout", c.cfg.JoinTimeout)
					outcomes[i] = &result{id: i, err: fmt.Errorf("process %d: %w after %v", i, ErrWorkerTimedOut, c.cfg.JoinTimeout)}
				}
			}
			return outcomes
		}
	}
	return outcomes
}

func newEntry(i int, byID map[int]process.Process, r *result) Entry {
	e := Entry{Process: process.Process{ID: i}, Outcome: OutcomeTerminated}
	if snap, ok := byID[i]; ok {
		e.Process = snap
	} else if r.err == nil {
		e.Process = r.proc
	}

	switch {
	case r.err == nil:
	case errors.Is(r.err, ErrWorkerJoinFailed):
		e.Outcome = OutcomeJoinFailed
		e.Err = r.err
	case errors.Is(r.err, ErrWorkerTimedOut):
		e.Outcome = OutcomeTimedOut
		e.Err = r.err
	default:
		e.Outcome = OutcomeFailed
		e.Err = r.err
	}
	return e
}
