package core

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/dispatch"
	"github.com/19wintersp/VectorAudio/internal/ptt"
	"github.com/19wintersp/VectorAudio/internal/radio"
	"github.com/19wintersp/VectorAudio/internal/session"
	"github.com/19wintersp/VectorAudio/internal/status"
)

// Inactive is reported as the last heard callsign before anything was heard.
const Inactive = "Inactive"

// Options wires the coordinator's optional collaborators.
type Options struct {
	SnapshotRefresh time.Duration

	Keys    ptt.KeyPoller
	Buttons ptt.ButtonPoller
	Binding ptt.Binding

	// Connectivity is re-checked every ConnectivityInterval (15s when zero)
	// and fed into the session. Nil disables the re-check.
	Connectivity         session.ConnectivityChecker
	ConnectivityInterval time.Duration

	Notifier  dispatch.Notifier
	Publisher dispatch.Publisher
}

// Coordinator is the explicit context object of the client core.
type Coordinator struct {
	engine     adapter.Engine
	registry   *radio.Registry
	controller *session.Controller

	queue      *dispatch.Queue
	dispatcher *dispatch.Dispatcher
	arbiter    *ptt.Arbiter
	snapshot   *status.Snapshot
	publisher  dispatch.Publisher

	connectivity         session.ConnectivityChecker
	connectivityInterval time.Duration
	lastCheck            time.Time

	levelsMu sync.Mutex
	peak, vu float64

	pttOpen atomic.Bool
	lastRx  atomic.Int64
	frames  atomic.Int64
}

var _ status.ReadPort = (*Coordinator)(nil)

// New creates a coordinator and registers its queue as the engine's event sink.
func New(engine adapter.Engine, registry *radio.Registry, controller *session.Controller, opts Options) *Coordinator {
	if opts.SnapshotRefresh <= 0 {
		opts.SnapshotRefresh = 300 * time.Millisecond
	}
	if opts.ConnectivityInterval <= 0 {
		opts.ConnectivityInterval = 15 * time.Second
	}

	c := &Coordinator{
		engine:     engine,
		registry:   registry,
		controller: controller,
		queue:      dispatch.NewQueue(),
		snapshot:   status.NewSnapshot(opts.SnapshotRefresh),
		publisher:  opts.Publisher,

		connectivity:         opts.Connectivity,
		connectivityInterval: opts.ConnectivityInterval,
	}
	c.dispatcher = dispatch.New(engine, registry, controller, opts.Notifier, opts.Publisher)
	c.arbiter = ptt.NewArbiter(engine, opts.Keys, opts.Buttons, opts.Binding)

	engine.RegisterEventSink(c.queue.Push)
	return c
}

// Controller returns the session controller.
func (c *Coordinator) Controller() *session.Controller {
	return c.controller
}

// Frame runs one coordination pass.
func (c *Coordinator) Frame(now time.Time) {
	c.frames.Add(1)

	peak, vu := c.engine.GetInputPeak(), c.engine.GetInputVu()
	c.levelsMu.Lock()
	c.peak, c.vu = peak, vu
	c.levelsMu.Unlock()

	c.dispatcher.DrainFrom(c.queue)
	c.lastRx.Store(int64(c.dispatcher.LastRxFrequency()))

	if c.arbiter.Advance(c.engine.IsVoiceConnected()) {
		c.pttOpen.Store(c.arbiter.IsOpen())
		c.emit("ptt", map[string]interface{}{"open": c.arbiter.IsOpen()})
	}

	c.checkConnectivity(now)
	if c.controller.EnforceConnectivity() {
		c.emit("session", map[string]interface{}{"state": "connectivity_lost"})
	}

	if c.controller.Bootstrap() {
		c.emit("session", map[string]interface{}{
			"state":    "bootstrapped",
			"stations": c.registry.Len(),
		})
	}

	c.snapshot.Refresh(now, c.buildTransmitting)
}

// checkConnectivity refreshes the session from the checker once per interval.
func (c *Coordinator) checkConnectivity(now time.Time) {
	if c.connectivity == nil {
		return
	}
	if !c.lastCheck.IsZero() && now.Sub(c.lastCheck) < c.connectivityInterval {
		return
	}
	c.lastCheck = now

	conn, err := c.connectivity.CheckConnectivity()
	if err != nil {
		log.Printf("core: connectivity check failed: %v", err)
		return
	}
	c.controller.UpdateConnectivity(conn)
}

// Run calls Frame every interval until ctx is done.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("core: frame loop started, interval %v", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("core: frame loop stopped after %d frames", c.frames.Load())
			return nil
		case now := <-ticker.C:
			c.Frame(now)
		}
	}
}

// buildTransmitting renders "last_transmitter:frequency" for each station
// receiving right now.
func (c *Coordinator) buildTransmitting() string {
	var pairs []string
	for _, st := range c.ReceivingStations() {
		cs := c.engine.LastTransmitOnFrequency(st.Frequency)
		if cs == "" {
			continue
		}
		pairs = append(pairs, cs+":"+st.DisplayFrequency)
	}
	return strings.Join(pairs, ",")
}

// Transmitting returns the throttled transmitting snapshot.
func (c *Coordinator) Transmitting() string {
	return c.snapshot.Get()
}

// ReceivingStations returns the stations with reception in progress while
// voice is connected.
func (c *Coordinator) ReceivingStations() []radio.Station {
	return c.activeStations(c.engine.GetRxActive)
}

// TransmittingStations returns the stations transmitting while voice is
// connected.
func (c *Coordinator) TransmittingStations() []radio.Station {
	return c.activeStations(c.engine.GetTxActive)
}

func (c *Coordinator) activeStations(active func(frequency int) bool) []radio.Station {
	if !c.engine.IsVoiceConnected() {
		return nil
	}
	return c.registry.Filter(func(st radio.Station) bool {
		return active(st.Frequency)
	})
}

// LastHeard returns the callsign last heard: a station receiving now wins,
// then the frequency of the last closed reception, else Inactive.
func (c *Coordinator) LastHeard() string {
	heard := ""
	if freq := int(c.lastRx.Load()); freq > 0 {
		heard = c.engine.LastTransmitOnFrequency(freq)
	}
	for _, st := range c.ReceivingStations() {
		if cs := c.engine.LastTransmitOnFrequency(st.Frequency); cs != "" {
			heard = cs
		}
	}
	if heard == "" {
		return Inactive
	}
	return heard
}

// Levels returns the input peak and VU of the last frame.
func (c *Coordinator) Levels() (peak, vu float64) {
	c.levelsMu.Lock()
	defer c.levelsMu.Unlock()
	return c.peak, c.vu
}

// Frames returns the number of frames run.
func (c *Coordinator) Frames() int64 {
	return c.frames.Load()
}

// State summarizes the client for telemetry subscribers.
func (c *Coordinator) State() map[string]interface{} {
	peak, vu := c.Levels()
	return map[string]interface{}{
		"apiConnected":   c.engine.IsAPIConnected(),
		"voiceConnected": c.engine.IsVoiceConnected(),
		"stations":       c.registry.List(),
		"transmitting":   c.Transmitting(),
		"lastHeard":      c.LastHeard(),
		"ptt":            c.pttOpen.Load(),
		"peak":           peak,
		"vu":             vu,
	}
}

func (c *Coordinator) emit(eventType string, data map[string]interface{}) {
	if c.publisher != nil {
		c.publisher.Emit(eventType, data)
	}
}
