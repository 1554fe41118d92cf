// Package worker drives a single simulated process through its lifecycle.
//
// A worker owns its process.Process exclusively. After each transition it hands
// a copy to a Publisher (normally the shared registry); nothing else ever sees
// the worker's own value.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Publisher receives process snapshots.
type Publisher interface {
	Put(p process.Process) error
}

// Option configures a single Run.
type Option func(*runner)

// WithFault injects a deliberate failure into the lifecycle.
func WithFault(f Fault) Option {
	return func(r *runner) { r.fault = f }
}

type runner struct {
	proc   process.Process
	params Params
	pub    Publisher
	fault  Fault
	span   *tracing.Span
	log    *slog.Logger
}

// Run executes the full lifecycle for process id and returns its final value:
//
//	New -> Ready -> Running (published Cycles times) -> [CPU busy-wait]
//	    -> Waiting -> [I/O sleep] -> Ready -> Terminated
//
// The first error (an illegal transition or a failed publish) stops the
// lifecycle and is returned together with the process as it stood.
func Run(ctx context.Context, id int, params Params, pub Publisher, opts ...Option) (proc process.Process, err error) {
	r := &runner{
		proc:   process.New(id),
		params: params,
		pub:    pub,
		log:    slog.With("process", id),
	}
	for _, opt := range opts {
		opt(r)
	}

	_, r.span = tracing.StartSpan(ctx, "worker.lifecycle",
		attribute.Int("process.id", id),
		attribute.String("fault", r.fault.String()),
	)
	defer func() {
		if p := recover(); p != nil {
			r.span.End(fmt.Errorf("panic: %v", p))
			panic(p)
		}
		r.span.SetAttributes(
			attribute.String("process.state", r.proc.State.String()),
			attribute.Int64("process.total_cpu_ms", r.proc.TotalCPU.Milliseconds()),
			attribute.Int64("process.total_io_ms", r.proc.TotalIO.Milliseconds()),
		)
		r.span.End(err)
	}()

	err = r.lifecycle()
	if err != nil {
		r.log.Error("process failed", "state", r.proc.State, "error", err)
	}
	return r.proc, err
}

func (r *runner) lifecycle() error {
	id := r.proc.ID

	if err := r.step(process.StateReady); err != nil {
		return err
	}

	// Dispatch churn: only the first pass changes state; every pass republishes.
	for i := 0; i < r.params.Cycles; i++ {
		if i == 0 {
			if err := r.step(process.StateRunning); err != nil {
				return err
			}
			continue
		}
		if err := r.publish(); err != nil {
			return err
		}
	}

	cpu := r.params.CPUDuration(id)
	if r.fault == FaultPanic {
		BusyWait(cpu / 2)
		panic(fmt.Sprintf("process %d: simulated crash during CPU phase", id))
	}
	BusyWait(cpu)
	r.proc.AddCPU(cpu)

	if err := r.step(process.StateWaiting); err != nil {
		return err
	}

	io := r.params.IODuration(id)
	time.Sleep(io)
	r.proc.AddIO(io)

	if r.fault == FaultIllegalTransition {
		if err := r.step(process.StateRunning); err != nil {
			return err
		}
	}

	if err := r.step(process.StateReady); err != nil {
		return err
	}
	return r.step(process.StateTerminated)
}

// step applies a transition and publishes the result.
func (r *runner) step(to process.State) error {
	if err := r.proc.Transition(to); err != nil {
		return err
	}
	r.log.Debug("process transition", "state", to,
		"cpu_ms", r.proc.CPUTime.Milliseconds(), "io_ms", r.proc.IOTime.Milliseconds())
	return r.publish()
}

func (r *runner) publish() error {
	if err := r.pub.Put(r.proc); err != nil {
		return fmt.Errorf("publish process %d (%s): %w", r.proc.ID, r.proc.State, err)
	}
	r.span.Event("publish", attribute.String("state", r.proc.State.String()))
	return nil
}

// BusyWait consumes CPU by polling the clock until d has elapsed.
// It never sleeps or yields voluntarily.
func BusyWait(d time.Duration) {
	start := time.Now()
	var x uint64
	for time.Since(start) < d {
		x = x*6364136223846793005 + 1442695040888963407
	}
	_ = x
}
