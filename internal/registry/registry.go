// Package registry provides the shared snapshot store that every worker publishes into.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tessro/procsim/internal/event"
	"github.com/tessro/procsim/internal/process"
)

// ErrRegistryAccessFailed is matched by every *AccessError.
var ErrRegistryAccessFailed = errors.New("registry access failed")

// AccessError reports an operation refused because the registry is poisoned.
type AccessError struct {
	Op    string
	Cause any // panic value that poisoned the registry
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("registry %s: poisoned by panic: %v", e.Op, e.Cause)
}

func (e *AccessError) Unwrap() error {
	return ErrRegistryAccessFailed
}

// Update is delivered to observers after every successful Put.
type Update struct {
	Process process.Process
	// Seq is the registry-wide publish counter, starting at 1.
	Seq uint64
}

// Registry maps process id to the latest published snapshot.
// A single mutex guards the whole map.
type Registry struct {
	mu sync.Mutex
	// +checklocks:mu
	entries map[int]process.Process
	// +checklocks:mu
	seq uint64
	// +checklocks:mu
	poison any

	updates event.Emitter[Update]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[int]process.Process),
	}
}

// withLock runs fn while holding mu. A panic inside fn poisons the registry,
// releases the lock and is reported as an *AccessError.
func (r *Registry) withLock(op string, fn func()) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.poison != nil {
		return &AccessError{Op: op, Cause: r.poison}
	}

	defer func() {
		if p := recover(); p != nil {
			r.poison = p
			slog.Error("registry poisoned", "op", op, "panic", p)
			err = &AccessError{Op: op, Cause: p}
		}
	}()

	fn()
	return nil
}

// Put replaces the entry for p.ID with a copy of p and notifies observers.
func (r *Registry) Put(p process.Process) error {
	var seq uint64
	err := r.withLock("put", func() {
		r.entries[p.ID] = p
		r.seq++
		seq = r.seq
	})
	if err != nil {
		return err
	}

	r.updates.Emit(Update{Process: p, Seq: seq})
	return nil
}

// Get returns the latest snapshot for id.
func (r *Registry) Get(id int) (process.Process, bool, error) {
	var (
		p  process.Process
		ok bool
	)
	err := r.withLock("get", func() {
		p, ok = r.entries[id]
	})
	return p, ok, err
}

// SnapshotAll returns a copy of every entry ordered by id.
// Callers read it after all writers have been joined.
func (r *Registry) SnapshotAll() ([]process.Process, error) {
	var out []process.Process
	err := r.withLock("snapshot", func() {
		out = make([]process.Process, 0, len(r.entries))
		for _, p := range r.entries {
			out = append(out, p)
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Len returns the number of entries, or 0 if the registry is poisoned.
func (r *Registry) Len() int {
	n := 0
	_ = r.withLock("len", func() {
		n = len(r.entries)
	})
	return n
}

// Publishes returns the total number of successful Put calls.
func (r *Registry) Publishes() uint64 {
	var n uint64
	_ = r.withLock("publishes", func() {
		n = r.seq
	})
	return n
}

// OnUpdate subscribes fn to every successful Put. fn runs on the publishing
// goroutine after the lock is released.
func (r *Registry) OnUpdate(fn func(Update)) (unsubscribe func()) {
	return r.updates.Subscribe(fn)
}
