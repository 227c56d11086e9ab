package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a telemetry event in SSE form.
type Event struct {
	ID   int64                  `json:"id,omitempty"`
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Options configures a Hub.
type Options struct {
	// BufferSize is the number of events kept for Last-Event-ID resume.
	BufferSize int
	// HeartbeatInterval is the idle keepalive period. Zero disables heartbeats.
	HeartbeatInterval time.Duration
	// Snapshot supplies the payload of the ready event sent on subscribe.
	Snapshot func() map[string]interface{}
}

type client struct {
	id      string
	writer  http.ResponseWriter
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan Event
	writeMu sync.Mutex
	lastID  int64
}

// Hub manages SSE distribution of a single global event stream.
//
// Lock order: h.mu, then EventBuffer.mu, then client.writeMu.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	buffer  *EventBuffer
	opts    Options

	heartbeatStop chan struct{}

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub creates a hub with no subscribers.
func NewHub(opts Options) *Hub {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 50
	}
	return &Hub{
		clients: make(map[string]*client),
		buffer:  NewEventBuffer(opts.BufferSize),
		opts:    opts,
		done:    make(chan struct{}),
	}
}

// Subscribe streams events to w until ctx or the request is done.
func (h *Hub) Subscribe(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	lastEventID := int64(0)
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			lastEventID = id
		}
	}

	clientCtx, cancel := context.WithCancel(ctx)
	c := &client{
		id:     uuid.NewString(),
		writer: w,
		ctx:    clientCtx,
		cancel: cancel,
		events: make(chan Event, 100),
	}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		cancel()
		return fmt.Errorf("hub stopped")
	default:
	}
	h.clients[c.id] = c
	if len(h.clients) == 1 {
		h.startHeartbeat()
	}
	h.mu.Unlock()
	defer h.unregister(c.id)

	if err := h.sendReady(c); err != nil {
		return fmt.Errorf("failed to send ready event: %w", err)
	}

	if lastEventID > 0 {
		for _, event := range h.buffer.GetEventsAfter(lastEventID) {
			if err := c.send(event); err != nil {
				return fmt.Errorf("failed to replay events: %w", err)
			}
		}
	}

	h.serve(c)
	return nil
}

// Publish numbers, buffers and fans out an event. Slow subscribers drop
// events rather than block the publisher.
func (h *Hub) Publish(event Event) error {
	select {
	case <-h.done:
		return nil
	default:
	}

	event = h.buffer.AddEvent(event)
	h.broadcast(event)
	return nil
}

// Emit publishes an event of eventType with data.
func (h *Hub) Emit(eventType string, data map[string]interface{}) {
	_ = h.Publish(Event{Type: eventType, Data: data})
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Buffer exposes the resume buffer.
func (h *Hub) Buffer() *EventBuffer {
	return h.buffer
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-c.ctx.Done():
		case c.events <- event:
		default:
		}
	}
}

func (h *Hub) sendReady(c *client) error {
	data := map[string]interface{}{}
	if h.opts.Snapshot != nil {
		data = h.opts.Snapshot()
	}
	return c.send(Event{Type: "ready", Data: data})
}

func (h *Hub) serve(c *client) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-h.done:
			return
		case event := <-c.events:
			if err := c.send(event); err != nil {
				return
			}
		}
	}
}

func (c *client) send(event Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	// Events queued during replay may already have been written.
	if event.ID > 0 && event.ID <= c.lastID {
		return nil
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	if event.ID > 0 {
		if _, err := fmt.Fprintf(c.writer, "id: %d\n", event.ID); err != nil {
			return fmt.Errorf("failed to write event ID: %w", err)
		}
		c.lastID = event.ID
	}
	if _, err := fmt.Fprintf(c.writer, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	if flusher, ok := c.writer.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	if !ok {
		return
	}
	c.cancel()
	delete(h.clients, id)

	if len(h.clients) == 0 && h.heartbeatStop != nil {
		close(h.heartbeatStop)
		h.heartbeatStop = nil
	}
}

// startHeartbeat runs the keepalive loop. Caller holds h.mu.
func (h *Hub) startHeartbeat() {
	if h.opts.HeartbeatInterval <= 0 || h.heartbeatStop != nil {
		return
	}
	stop := make(chan struct{})
	h.heartbeatStop = stop

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(h.opts.HeartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.broadcast(Event{
					Type: "heartbeat",
					Data: map[string]interface{}{"ts": time.Now().UTC().Format(time.RFC3339)},
				})
			case <-stop:
				return
			case <-h.done:
				return
			}
		}
	}()
}

// Stop disconnects every subscriber and stops the heartbeat.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		for _, c := range h.clients {
			c.cancel()
		}
		if h.heartbeatStop != nil {
			close(h.heartbeatStop)
			h.heartbeatStop = nil
		}
		h.mu.Unlock()

		h.wg.Wait()
	})
}

// EventBuffer is a bounded ring of numbered events.
type EventBuffer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	nextID   int64
}

// NewEventBuffer creates a buffer holding at most capacity events.
func NewEventBuffer(capacity int) *EventBuffer {
	return &EventBuffer{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
		nextID:   1,
	}
}

// AddEvent numbers event, stores it and returns the stored copy.
func (b *EventBuffer) AddEvent(event Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	event.ID = b.nextID
	b.nextID++

	b.events = append(b.events, event)
	if len(b.events) > b.capacity {
		b.events = b.events[1:]
	}
	return event
}

// GetEventsAfter returns the buffered events with ID greater than lastID.
func (b *EventBuffer) GetEventsAfter(lastID int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []Event
	for _, event := range b.events {
		if event.ID > lastID {
			result = append(result, event)
		}
	}
	return result
}

// GetCapacity returns the buffer capacity.
func (b *EventBuffer) GetCapacity() int {
	return b.capacity
}

// GetSize returns the number of buffered events.
func (b *EventBuffer) GetSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events)
}
