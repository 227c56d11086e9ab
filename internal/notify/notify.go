// Package notify surfaces user-visible failures.
//
// ShowError is the single error-modal primitive: it never blocks the caller.
// Modals are queued for whatever front end drains Modals() and mirrored onto
// the telemetry stream. PlayAlarm sounds the disconnect alarm.
package notify

import (
	"log"
	"sync"
	"time"
)

// Publisher receives a copy of every notification.
type Publisher interface {
	Emit(eventType string, data map[string]interface{})
}

// Modal is an error message awaiting display.
type Modal struct {
	Message string
	Time    time.Time
}

// Notifier implements the error-modal primitive and the failure alarm.
type Notifier struct {
	modals    chan Modal
	alarm     *Alarm
	publisher Publisher
	now       func() time.Time

	mu      sync.Mutex
	dropped int
}

// New creates a notifier holding up to backlog undisplayed modals.
// alarm and publisher may be nil.
func New(backlog int, alarm *Alarm, publisher Publisher) *Notifier {
	if backlog <= 0 {
		backlog = 16
	}
	return &Notifier{
		modals:    make(chan Modal, backlog),
		alarm:     alarm,
		publisher: publisher,
		now:       time.Now,
	}
}

// ShowError queues message for display. When the backlog is full the
// message is logged and dropped.
func (n *Notifier) ShowError(message string) {
	log.Printf("notify: %s", message)

	modal := Modal{Message: message, Time: n.now()}
	select {
	case n.modals <- modal:
	default:
		n.mu.Lock()
		n.dropped++
		n.mu.Unlock()
		log.Printf("notify: modal backlog full, dropped message")
	}

	if n.publisher != nil {
		n.publisher.Emit("error", map[string]interface{}{"message": message})
	}
}

// PlayAlarm sounds the failure alarm.
func (n *Notifier) PlayAlarm() {
	if n.alarm != nil {
		n.alarm.Play()
	}
	if n.publisher != nil {
		n.publisher.Emit("alarm", map[string]interface{}{})
	}
}

// Modals is drained by the front end.
func (n *Notifier) Modals() <-chan Modal {
	return n.modals
}

// Dropped returns the number of modals dropped on a full backlog.
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}
