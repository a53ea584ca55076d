package engine

import (
	"testing"
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue()
	now := time.Now()
	q.Enqueue(OutboundMessage{Text: "first", QueuedAt: now})
	q.Enqueue(OutboundMessage{Text: "second", QueuedAt: now})

	m, ok := q.Tick()
	if !ok || m.Text != "first" {
		t.Fatalf("Tick = %+v, %v; want first", m, ok)
	}
	q.Ack()
	m, ok = q.Tick()
	if !ok || m.Text != "second" {
		t.Fatalf("Tick = %+v, %v; want second", m, ok)
	}
}

func TestQueueBlocksWhileDelivering(t *testing.T) {
	q := NewQueue()
	q.Enqueue(OutboundMessage{Text: "a", Type: types.TriggerAmbient})
	q.Enqueue(OutboundMessage{Text: "b", Type: types.TriggerAmbient})

	if _, ok := q.Tick(); !ok {
		t.Fatal("first Tick should start delivery")
	}
	if !q.Delivering() {
		t.Error("Delivering should be true after Tick")
	}
	if _, ok := q.Tick(); ok {
		t.Error("Tick should not hand out a message while one is in flight")
	}
	q.Ack()
	if q.Delivering() {
		t.Error("Delivering should be false after Ack")
	}
	if _, ok := q.Tick(); !ok {
		t.Error("Tick should resume after Ack")
	}
}

func TestQueueEmptyTick(t *testing.T) {
	q := NewQueue()
	if _, ok := q.Tick(); ok {
		t.Error("Tick on empty queue should report nothing to deliver")
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d, want 0", q.Len())
	}
}
