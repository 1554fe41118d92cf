package event

import (
	"sync"
	"sync/atomic"
	"testing"
)

type testEvent struct {
	Value int
}

func TestEmitter_Subscribe(t *testing.T) {
	var e Emitter[testEvent]

	var received []testEvent
	e.Subscribe(func(ev testEvent) {
		received = append(received, ev)
	})

	e.Emit(testEvent{Value: 42})

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Value != 42 {
		t.Errorf("expected value 42, got %d", received[0].Value)
	}
}

func TestEmitter_SubscriptionOrder(t *testing.T) {
	var e Emitter[testEvent]

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		e.Subscribe(func(_ testEvent) {
			order = append(order, i)
		})
	}

	e.Emit(testEvent{})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("call order = %v, want [1 2 3]", order)
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	var e Emitter[testEvent]

	var count1, count2 int
	unsub := e.Subscribe(func(_ testEvent) { count1++ })
	e.Subscribe(func(_ testEvent) { count2++ })

	e.Emit(testEvent{})
	unsub()
	unsub() // second call is a no-op
	e.Emit(testEvent{})

	if count1 != 1 {
		t.Errorf("unsubscribed handler called %d times, want 1", count1)
	}
	if count2 != 2 {
		t.Errorf("remaining handler called %d times, want 2", count2)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEmitter_EmitToNoHandlers(t *testing.T) {
	var e Emitter[testEvent]

	// Should not panic when emitting with no handlers
	e.Emit(testEvent{Value: 42})
}

func TestEmitter_SubscribeDuringEmit(t *testing.T) {
	var e Emitter[testEvent]

	var calls int
	e.Subscribe(func(_ testEvent) {
		calls++
		e.Subscribe(func(_ testEvent) { calls++ })
	})

	e.Emit(testEvent{})
	if calls != 1 {
		t.Fatalf("first emit: calls = %d, want 1", calls)
	}

	calls = 0
	e.Emit(testEvent{})
	if calls != 2 {
		t.Errorf("second emit: calls = %d, want 2", calls)
	}
}

func TestEmitter_ConcurrentEmission(t *testing.T) {
	var e Emitter[testEvent]

	var callCount atomic.Int32
	e.Subscribe(func(_ testEvent) {
		callCount.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			e.Emit(testEvent{Value: v})
		}(i)
	}
	wg.Wait()

	if callCount.Load() != 100 {
		t.Errorf("expected 100 emissions, got %d", callCount.Load())
	}
}

func TestEmitter_ConcurrentSubscribeAndUnsubscribe(t *testing.T) {
	var e Emitter[testEvent]

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := e.Subscribe(func(_ testEvent) {})
			unsub()
		}()
		go func(v int) {
			defer wg.Done()
			e.Emit(testEvent{Value: v})
		}(i)
	}
	wg.Wait()

	if e.Len() != 0 {
		t.Errorf("Len() = %d after all unsubscribed, want 0", e.Len())
	}
}
