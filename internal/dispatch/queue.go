package dispatch

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/19wintersp/VectorAudio/internal/adapter"
)

// Queue is a multi-producer, single-consumer FIFO of engine events.
type Queue struct {
	mu     sync.Mutex
	events *queue.Queue
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{events: queue.New()}
}

// Push appends ev. It never blocks on the consumer and is safe to register
// as the engine's event sink. Nil events are dropped.
func (q *Queue) Push(ev adapter.Event) {
	if ev == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events.Add(ev)
}

// Drain removes and returns every queued event in arrival order.
func (q *Queue) Drain() []adapter.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.events.Length()
	if n == 0 {
		return nil
	}
	out := make([]adapter.Event, 0, n)
	for q.events.Length() > 0 {
		out = append(out, q.events.Remove().(adapter.Event))
	}
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.events.Length()
}
