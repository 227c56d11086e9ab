package dispatch

import (
	"fmt"
	"log"
	"sort"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/radio"
	"github.com/19wintersp/VectorAudio/internal/session"
)

const (
	msgAudioError      = "Error starting audio devices.\nPlease check your log file for details.\nCheck your audio config!"
	msgStationNotFound = "Could not find station in database."
)

// Session is the part of the session controller the dispatcher drives.
type Session interface {
	AddStation(callsign string, frequency int) bool
	DisconnectAndCleanup()
	ConsumeManualDisconnect() bool
}

// Notifier surfaces user-visible failures.
type Notifier interface {
	ShowError(message string)
	PlayAlarm()
}

// Publisher receives a telemetry record of every handled event.
type Publisher interface {
	Emit(eventType string, data map[string]interface{})
}

var _ Session = (*session.Controller)(nil)

// Dispatcher applies engine events to the coordination state. It must only
// be called from the coordinator goroutine.
type Dispatcher struct {
	engine    adapter.Engine
	registry  *radio.Registry
	session   Session
	notifier  Notifier
	publisher Publisher

	lastRx int
}

// New creates a dispatcher. publisher may be nil.
func New(engine adapter.Engine, registry *radio.Registry, sess Session, notifier Notifier, publisher Publisher) *Dispatcher {
	return &Dispatcher{
		engine:    engine,
		registry:  registry,
		session:   sess,
		notifier:  notifier,
		publisher: publisher,
	}
}

// LastRxFrequency returns the frequency of the last RxClosed event, or 0.
func (d *Dispatcher) LastRxFrequency() int {
	return d.lastRx
}

// DrainFrom handles every event queued in q and returns how many there were.
func (d *Dispatcher) DrainFrom(q *Queue) int {
	events := q.Drain()
	for _, ev := range events {
		d.Handle(ev)
	}
	return len(events)
}

// Handle applies one event.
func (d *Dispatcher) Handle(ev adapter.Event) {
	if ev == nil {
		return
	}

	switch e := ev.(type) {
	case adapter.VCCSReceived:
		d.handleVCCS(e)

	case adapter.TransceiversUpdated:
		count := d.engine.GetTransceiverCountForStation(e.Callsign)
		d.registry.SetTransceivers(e.Callsign, count)

	case adapter.StationSearchResult:
		if !e.Found {
			d.showError(msgStationNotFound)
			break
		}
		d.session.AddStation(e.Callsign, e.Frequency)

	case adapter.RxClosed:
		d.lastRx = e.Frequency

	case adapter.APISessionError:
		info := e.Code.Info()
		log.Printf("dispatch: %s", info.LogLine)
		d.showError(info.Message)
		if info.Fatal {
			d.teardown()
		}

	case adapter.AudioError:
		log.Printf("dispatch: audio devices failed to start")
		d.showError(msgAudioError)
		d.session.DisconnectAndCleanup()

	case adapter.VoiceServerDisconnected:
		if !d.session.ConsumeManualDisconnect() {
			d.playAlarm()
		}

	case adapter.VoiceServerError:
		d.showError(fmt.Sprintf("Voice server returned error %d, please check the log file.", e.Code))
		d.teardown()

	case adapter.VoiceServerChannelError:
		d.showError(fmt.Sprintf("Voice server returned channel error %d, please check the log file.", e.Code))
		d.teardown()

	case adapter.AudioDeviceStopped:
		d.showError(fmt.Sprintf("The audio device %s has stopped working, check if it is still physically connected.", e.Device))
		d.teardown()

	default:
		log.Printf("dispatch: unhandled event %s", adapter.Describe(ev))
		return
	}

	d.publish(ev)
}

// handleVCCS adds the stations of a VCCS list while voice is connected, in
// callsign order.
func (d *Dispatcher) handleVCCS(e adapter.VCCSReceived) {
	if !d.engine.IsVoiceConnected() || len(e.Stations) == 0 {
		return
	}

	callsigns := make([]string, 0, len(e.Stations))
	for cs := range e.Stations {
		callsigns = append(callsigns, cs)
	}
	sort.Strings(callsigns)

	added := 0
	for _, cs := range callsigns {
		if d.session.AddStation(cs, e.Stations[cs]) {
			added++
		}
	}
	if added > 0 {
		log.Printf("dispatch: added %d stations from VCCS of %s", added, e.Station)
	}
}

func (d *Dispatcher) teardown() {
	d.session.DisconnectAndCleanup()
	d.playAlarm()
}

func (d *Dispatcher) showError(message string) {
	if d.notifier != nil {
		d.notifier.ShowError(message)
	}
}

func (d *Dispatcher) playAlarm() {
	if d.notifier != nil {
		d.notifier.PlayAlarm()
	}
}

func (d *Dispatcher) publish(ev adapter.Event) {
	if d.publisher == nil {
		return
	}
	d.publisher.Emit("engine", map[string]interface{}{
		"kind":   ev.Kind(),
		"detail": adapter.Describe(ev),
	})
}
