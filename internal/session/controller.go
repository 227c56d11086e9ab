package session

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/config"
	"github.com/19wintersp/VectorAudio/internal/radio"
)

// DefaultPosition is used when neither the session nor the airport table
// places the client.
var DefaultPosition = adapter.Position{
	Latitude:    48.967860,
	Longitude:   2.442000,
	AltitudeMSL: 300,
	AltitudeAGL: 300,
}

const (
	// towerHeight pads an airport elevation to place the client in a tower.
	towerHeight = 33
	// reportedAltitude is sent with externally supplied positions.
	reportedAltitude = 300
	// unicomAltitude is sent when placing the client at a pilot for UNICOM.
	unicomAltitude = 1000

	maxGain = 200
)

// Options wires the controller's collaborators. Every field is optional.
type Options struct {
	Audio        config.AudioConfig
	Airports     AirportLookup
	AirportWait  time.Duration
	Pilots       PilotLocator
	Connectivity ConnectivityChecker
	Notifier     Notifier
	Audit        AuditLogger
}

// Controller owns the connection lifecycle and the station operations.
type Controller struct {
	engine   adapter.Engine
	registry *radio.Registry
	session  *Session
	opts     Options

	gain   int
	booted bool
}

// NewController creates a controller for sess.
func NewController(engine adapter.Engine, registry *radio.Registry, sess *Session, opts Options) *Controller {
	gain := opts.Audio.RadioGain
	if gain == 0 {
		gain = 100
	}
	return &Controller{
		engine:   engine,
		registry: registry,
		session:  sess,
		opts:     opts,
		gain:     clampGain(gain),
	}
}

// Session returns the owned session.
func (c *Controller) Session() *Session {
	return c.session
}

// Booted reports whether the primary station was seeded for this connection.
func (c *Controller) Booted() bool {
	return c.booted
}

// Gain returns the radio gain percentage.
func (c *Controller) Gain() int {
	return c.gain
}

// BeginConnect pushes the session and audio settings into the engine and
// asks it to connect.
func (c *Controller) BeginConnect() error {
	s := c.session

	if !s.IsConnected && c.opts.Connectivity != nil {
		conn, err := c.opts.Connectivity.CheckConnectivity()
		if err != nil {
			log.Printf("session: connectivity check failed: %v", err)
		} else {
			s.Apply(conn)
		}
	}

	if !s.IsConnected {
		c.showError("Not connected to VATSIM!")
		c.audit("connect", nil, ErrNotConnected)
		return ErrNotConnected
	}

	if c.engine.IsVoiceConnected() {
		c.audit("connect", nil, ErrAlreadyLinked)
		return ErrAlreadyLinked
	}

	if c.engine.IsAudioRunning() {
		c.engine.StopAudio()
	}
	if c.engine.IsAPIConnected() {
		c.engine.Disconnect()
	}

	c.pushAudioSettings()
	c.engine.SetClientPosition(c.resolvePosition())

	c.engine.SetCredentials(strconv.Itoa(s.CID), s.Password)
	c.engine.SetCallsign(s.Callsign)
	c.engine.SetRadiosGain(c.gainFactor())

	if !c.engine.Connect() {
		log.Printf("session: failed to connect: engine says API is connected")
	}

	c.audit("connect", map[string]interface{}{"cid": s.CID}, nil)
	return nil
}

func (c *Controller) pushAudioSettings() {
	audio := c.opts.Audio

	api := c.resolveAudioAPI(audio.API)
	c.engine.SetAudioAPI(api)
	c.engine.SetAudioInputDevice(resolveDevice(audio.InputDevice, c.engine.GetAudioInputDevices(api)))

	outputs := c.engine.GetAudioOutputDevices(api)
	c.engine.SetAudioOutputDevice(resolveDevice(audio.OutputDevice, outputs))
	c.engine.SetAudioSpeakersOutputDevice(resolveDevice(audio.SpeakerDevice, outputs))

	c.engine.SetHardware(adapter.HardwareType(audio.HardwareType))
	c.engine.SetHeadsetOutputChannel(audio.HeadsetChannel)
}

// resolveAudioAPI returns the ID of the API called name, else the first API.
func (c *Controller) resolveAudioAPI(name string) int {
	apis := c.engine.GetAudioAPIs()
	for _, api := range apis {
		if api.Name == name {
			return api.ID
		}
	}
	if len(apis) > 0 {
		if name != "" {
			log.Printf("session: audio API %q not found, using %q", name, apis[0].Name)
		}
		return apis[0].ID
	}
	return 0
}

// resolveDevice returns name when available, else the first device.
func resolveDevice(name string, available []string) string {
	for _, d := range available {
		if d == name {
			return d
		}
	}
	if len(available) > 0 {
		if name != "" {
			log.Printf("session: audio device %q not found, using %q", name, available[0])
		}
		return available[0]
	}
	return name
}

// resolvePosition prefers the session position, then the airport named by
// the callsign prefix, then DefaultPosition.
func (c *Controller) resolvePosition() adapter.Position {
	s := c.session
	if s.HasPosition {
		log.Printf("session: position from network data at lat:%v, lon:%v", s.Latitude, s.Longitude)
		return adapter.Position{
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			AltitudeMSL: reportedAltitude,
			AltitudeAGL: reportedAltitude,
		}
	}

	icao, _, _ := strings.Cut(s.Callsign, "_")
	if c.airportsReady() {
		if a, ok := c.opts.Airports.Lookup(icao); ok {
			log.Printf("session: position from airport database at lat:%v, lon:%v, elev:%v", a.Latitude, a.Longitude, a.Elevation)
			return adapter.Position{
				Latitude:    a.Latitude,
				Longitude:   a.Longitude,
				AltitudeMSL: a.Elevation + towerHeight,
				AltitudeAGL: a.Elevation + towerHeight,
			}
		}
	}

	log.Printf("session: client position is unknown, using default")
	return DefaultPosition
}

// airportsReady waits up to AirportWait for the airport table.
func (c *Controller) airportsReady() bool {
	if c.opts.Airports == nil {
		return false
	}
	select {
	case <-c.opts.Airports.Ready():
		return true
	default:
	}
	if c.opts.AirportWait <= 0 {
		return false
	}

	timer := time.NewTimer(c.opts.AirportWait)
	defer timer.Stop()
	select {
	case <-c.opts.Airports.Ready():
		return true
	case <-timer.C:
		log.Printf("session: airport database not ready after %v", c.opts.AirportWait)
		return false
	}
}

// Disconnect is a user-initiated disconnect. The manual flag is only raised
// when a voice link exists to produce the matching disconnect event.
func (c *Controller) Disconnect() {
	if c.engine.IsVoiceConnected() {
		c.session.ManuallyDisconnected = true
	}
	c.DisconnectAndCleanup()
	c.audit("disconnect", nil, nil)
}

// DisconnectAndCleanup tears the link down and empties the registry. It is
// safe to call in any state.
func (c *Controller) DisconnectAndCleanup() {
	c.engine.Disconnect()
	c.engine.StopAudio()

	for _, st := range c.registry.List() {
		c.engine.RemoveFrequency(st.Frequency)
	}
	c.registry.Clear()
	c.booted = false
}

// ConsumeManualDisconnect returns and clears the manual-disconnect flag.
func (c *Controller) ConsumeManualDisconnect() bool {
	was := c.session.ManuallyDisconnected
	c.session.ManuallyDisconnected = false
	return was
}

// Bootstrap seeds the primary station the first time the API is connected
// with an empty registry. It reports whether it ran.
func (c *Controller) Bootstrap() bool {
	if c.booted || !c.engine.IsAPIConnected() || c.registry.Len() > 0 {
		return false
	}
	c.booted = true

	s := c.session
	if s.Frequency <= 0 {
		log.Printf("session: no primary frequency, skipping bootstrap")
		return false
	}
	callsign := strings.ReplaceAll(s.Callsign, "__", "_")
	freq := radio.Normalize833(s.Frequency)

	if !c.registry.Exists(freq) {
		c.registry.Add(radio.NewStation(callsign, freq))
	}

	c.engine.AddFrequency(freq, callsign)
	c.engine.SetEnableInputFilters(c.opts.Audio.InputFilters)
	c.engine.SetEnableOutputEffects(c.opts.Audio.VHFEffects)
	c.engine.UseTransceiversFromStation(callsign, freq)
	c.engine.SetRx(freq, true)
	if s.Facility > 0 {
		c.engine.SetTx(freq, true)
		c.engine.SetXc(freq, true)
	}
	c.engine.FetchStationVccs(callsign)
	c.engine.SetRadiosGain(c.gainFactor())

	log.Printf("session: bootstrapped %s on %s", callsign, radio.FormatFrequency(freq))
	return true
}

// AddStation normalizes freq and registers the station if the frequency is
// new. It reports whether a station was added.
func (c *Controller) AddStation(callsign string, freq int) bool {
	freq = radio.Normalize833(freq)
	if c.registry.Exists(freq) {
		return false
	}
	return c.registry.Add(radio.NewStation(callsign, freq))
}

// Search looks a station up by callsign. Results arrive later as engine
// events. A query of "!CALLSIGN" instead opens UNICOM at that pilot's position.
func (c *Controller) Search(query string) error {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" || query == "!" {
		return ErrEmptyQuery
	}
	if !c.engine.IsVoiceConnected() {
		return ErrVoiceDisconnected
	}

	pilot, unicom := strings.CutPrefix(query, "!")
	if !unicom {
		c.engine.GetStation(query)
		c.engine.FetchStationVccs(query)
		c.audit("search", map[string]interface{}{"callsign": query}, nil)
		return nil
	}

	err := c.openUnicom(pilot)
	c.audit("unicom", map[string]interface{}{"callsign": pilot}, err)
	return err
}

func (c *Controller) openUnicom(pilot string) error {
	if c.registry.Exists(radio.UnicomFrequency) {
		c.showError("Another UNICOM frequency is active, please delete it first.")
		return ErrUnicomActive
	}

	var lat, lon float64
	found := false
	if c.opts.Pilots != nil {
		lat, lon, found = c.opts.Pilots.PilotPosition(pilot)
	}
	if !found {
		c.showError("Could not find pilot connected under that callsign.")
		return ErrPilotNotFound
	}

	c.registry.Add(radio.NewStation(pilot, radio.UnicomFrequency))
	c.engine.SetClientPosition(adapter.Position{
		Latitude:    lat,
		Longitude:   lon,
		AltitudeMSL: unicomAltitude,
		AltitudeAGL: unicomAltitude,
	})
	c.engine.AddFrequency(radio.UnicomFrequency, pilot)
	c.engine.SetRx(radio.UnicomFrequency, true)
	c.engine.SetRadiosGain(c.gainFactor())
	return nil
}

// ToggleRx flips receive on freq, re-adding the frequency to the engine when
// it is not active there.
func (c *Controller) ToggleRx(freq int) error {
	err := c.toggle(freq, false, false, func() {
		c.engine.SetRx(freq, !c.engine.GetRxState(freq))
	})
	c.audit("toggle_rx", map[string]interface{}{"frequency": freq}, err)
	return err
}

// ToggleTx flips transmit on freq. Re-adding enables receive too.
func (c *Controller) ToggleTx(freq int) error {
	err := c.toggleTransmitting(freq, false, func() {
		c.engine.SetTx(freq, !c.engine.GetTxState(freq))
	})
	c.audit("toggle_tx", map[string]interface{}{"frequency": freq}, err)
	return err
}

// ToggleXc flips cross-couple on freq. Re-adding enables receive and transmit too.
func (c *Controller) ToggleXc(freq int) error {
	err := c.toggleTransmitting(freq, true, func() {
		c.engine.SetXc(freq, !c.engine.GetXcState(freq))
	})
	c.audit("toggle_xc", map[string]interface{}{"frequency": freq}, err)
	return err
}

func (c *Controller) toggleTransmitting(freq int, xc bool, flip func()) error {
	if c.session.Facility <= 0 {
		return ErrNotTransmitCapable
	}
	return c.toggle(freq, true, xc, flip)
}

func (c *Controller) toggle(freq int, tx, xc bool, flip func()) error {
	st, ok := c.registry.Find(freq)
	if !ok {
		return ErrUnknownStation
	}
	if c.engine.IsFrequencyActive(freq) {
		flip()
		return nil
	}

	c.engine.AddFrequency(st.Frequency, st.Callsign)
	c.engine.SetEnableInputFilters(c.opts.Audio.InputFilters)
	c.engine.SetEnableOutputEffects(c.opts.Audio.VHFEffects)
	c.engine.UseTransceiversFromStation(st.Callsign, st.Frequency)
	if tx {
		c.engine.SetTx(st.Frequency, true)
	}
	c.engine.SetRx(st.Frequency, true)
	if xc {
		c.engine.SetXc(st.Frequency, true)
	}
	c.engine.SetRadiosGain(c.gainFactor())
	return nil
}

// ToggleHeadset moves freq between headset and speakers.
func (c *Controller) ToggleHeadset(freq int) error {
	if !c.registry.Exists(freq) {
		return ErrUnknownStation
	}
	if c.engine.IsFrequencyActive(freq) {
		c.engine.SetOnHeadset(freq, !c.engine.GetOnHeadset(freq))
	}
	return nil
}

// RemoveStation drops freq from the engine and the registry.
func (c *Controller) RemoveStation(freq int) {
	c.engine.RemoveFrequency(freq)
	c.registry.Remove(freq)
	c.audit("remove_station", map[string]interface{}{"frequency": freq}, nil)
}

// RefreshTransceivers asks the engine for the transceivers of callsign.
func (c *Controller) RefreshTransceivers(callsign string) {
	c.engine.FetchTransceiverInfo(callsign)
}

// SetGain sets the radio gain percentage, clamped to [0, 200], and returns
// the applied value. The engine is only updated while voice is connected.
func (c *Controller) SetGain(percent int) int {
	c.gain = clampGain(percent)
	if c.engine.IsVoiceConnected() {
		c.engine.SetRadiosGain(c.gainFactor())
	}
	return c.gain
}

// UpdateConnectivity records the latest connectivity check.
func (c *Controller) UpdateConnectivity(conn Connectivity) {
	c.session.Apply(conn)
}

// EnforceConnectivity tears the link down when the network connection was
// lost while linked. It reports whether it did.
func (c *Controller) EnforceConnectivity() bool {
	if c.session.IsConnected {
		return false
	}
	if !c.engine.IsAPIConnected() && !c.engine.IsVoiceConnected() {
		return false
	}
	log.Printf("session: network connection lost, disconnecting")
	c.DisconnectAndCleanup()
	return true
}

func (c *Controller) gainFactor() float32 {
	return float32(c.gain) / 100
}

func clampGain(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > maxGain {
		return maxGain
	}
	return percent
}

func (c *Controller) showError(message string) {
	if c.opts.Notifier != nil {
		c.opts.Notifier.ShowError(message)
	}
}

func (c *Controller) audit(action string, params map[string]interface{}, err error) {
	if c.opts.Audit != nil {
		c.opts.Audit.Record(c.session.Callsign, action, params, err)
	}
}
