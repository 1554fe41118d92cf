package tui

import (
	"sort"
	"sync"

	"github.com/tessro/procsim/internal/coordinator"
	"github.com/tessro/procsim/internal/process"
	"github.com/tessro/procsim/internal/registry"
)

// Feed bridges registry observers to the live view. Observe never blocks, so
// workers keep running even if the view is slow or has already exited.
// Bursts of updates are coalesced: the view always sees the latest snapshot
// per process.
type Feed struct {
	mu sync.Mutex
	// +checklocks:mu
	latest map[int]process.Process
	// +checklocks:mu
	publishes uint64
	// +checklocks:mu
	report *coordinator.Report
	// +checklocks:mu
	err error

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		latest: make(map[int]process.Process),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Attach subscribes the feed to reg and returns the unsubscribe function.
func (f *Feed) Attach(reg *registry.Registry) (detach func()) {
	return reg.OnUpdate(f.Observe)
}

// Observe records one registry update.
func (f *Feed) Observe(u registry.Update) {
	f.mu.Lock()
	f.latest[u.Process.ID] = u.Process
	if u.Seq > f.publishes {
		f.publishes = u.Seq
	}
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// Finish delivers the outcome of the run. Later calls are ignored.
func (f *Feed) Finish(r *coordinator.Report, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.report, f.err = r, err
		f.mu.Unlock()
		close(f.done)
	})
}

// snapshot returns the latest processes ordered by id and the publish count.
func (f *Feed) snapshot() ([]process.Process, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]process.Process, 0, len(f.latest))
	for _, p := range f.latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, f.publishes
}

func (f *Feed) result() (*coordinator.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.report, f.err
}
