// Package event provides generic event fan-out to registered observers.
package event

import "sync"

// Emitter delivers events of type E to subscribed handlers.
// The zero value is ready to use.
type Emitter[E any] struct {
	// +checklocks:mu
	handlers map[uint64]func(E)
	// +checklocks:mu
	order []uint64
	// +checklocks:mu
	next uint64
	mu   sync.RWMutex
}

// Subscribe registers a handler and returns a function that removes it.
// Handlers run synchronously on the emitting goroutine, in subscription order.
func (e *Emitter[E]) Subscribe(handler func(E)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[uint64]func(E))
	}
	id := e.next
	e.next++
	e.handlers[id] = handler
	e.order = append(e.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Emitter[E]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.handlers, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i:i], e.order[i+1:]...)
			break
		}
	}
}

// Emit sends event to every handler subscribed at the time of the call.
// Must not be called with lock held.
func (e *Emitter[E]) Emit(event E) {
	e.mu.RLock()
	handlers := make([]func(E), 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// Len returns the number of subscribed handlers.
func (e *Emitter[E]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}
