package engine

import (
	"sync"
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

// OutboundMessage is one pending unprompted character message.
type OutboundMessage struct {
	Text     string            `json:"text"`
	Type     types.TriggerType `json:"type"`
	QueuedAt time.Time         `json:"queued_at"`
}

// Queue is a FIFO of pending outbound messages with an explicit
// currently-delivering flag, advanced by discrete Tick calls. No timers:
// the host calls Tick when its transport is ready for the next message
// and Ack when delivery finished.
type Queue struct {
	mu         sync.Mutex
	pending    []OutboundMessage
	delivering bool
}

// NewQueue returns an empty delivery queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a message to the pending FIFO.
func (q *Queue) Enqueue(m OutboundMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, m)
}

// Tick starts the next delivery. It returns false while a delivery is in
// flight or the queue is empty.
func (q *Queue) Tick() (OutboundMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.delivering || len(q.pending) == 0 {
		return OutboundMessage{}, false
	}
	m := q.pending[0]
	q.pending = q.pending[1:]
	q.delivering = true
	return m, true
}

// Ack marks the in-flight delivery as finished.
func (q *Queue) Ack() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delivering = false
}

// Len reports the number of pending messages, excluding any in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Delivering reports whether a delivery is in flight.
func (q *Queue) Delivering() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delivering
}
