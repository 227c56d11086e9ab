// Package fake provides an in-process loopback Engine.
//
// It keeps the full frequency/link/audio state of a voice engine in memory and
// emits events to the registered sink from the calling goroutine, so tests and
// headless runs can drive the coordination core without a voice network.
package fake

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/auth"
)

type frequencyState struct {
	callsign  string
	rx        bool
	tx        bool
	xc        bool
	onHeadset bool
	receiving bool
	lastTx    string
}

// Options configures a fake engine.
type Options struct {
	// Secret signs the session tokens minted on Connect.
	Secret []byte
	// TokenTTL is the lifetime of minted tokens, one hour when zero. A negative
	// TTL yields an already expired token, which Connect reports as an
	// auth-token error.
	TokenTTL time.Duration
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

// Engine implements adapter.Engine in memory.
type Engine struct {
	mu   sync.Mutex
	opts Options

	sink   adapter.EventSink
	closed bool

	apiConnected   bool
	voiceConnected bool
	audioRunning   bool

	username string
	password string
	callsign string
	position adapter.Position
	token    string

	audioAPI       int
	inputDevice    string
	outputDevice   string
	speakerDevice  string
	hardware       adapter.HardwareType
	headsetChannel int
	inputFilters   bool
	outputEffects  bool
	gain           float32
	ptt            bool
	inputPeak      float64
	inputVu        float64

	frequencies  map[int]*frequencyState
	directory    map[string]int
	vccs         map[string]map[string]int
	transceivers map[string]int
	linked       map[string]int

	connectFailure adapter.APIErrorCode
	calls          []string
}

// New creates a disconnected fake engine.
func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("loopback")
	}
	return &Engine{
		opts:         opts,
		gain:         1,
		inputFilters: true,
		frequencies:  make(map[int]*frequencyState),
		directory:    make(map[string]int),
		vccs:         make(map[string]map[string]int),
		transceivers: make(map[string]int),
		linked:       make(map[string]int),
	}
}

var _ adapter.Engine = (*Engine)(nil)

// RegisterEventSink sets the receiver of engine events.
func (e *Engine) RegisterEventSink(sink adapter.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Close detaches the sink. Later Connect calls fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Close")
	if e.closed {
		return adapter.ErrEngineClosed
	}
	e.closed = true
	e.sink = nil
	e.apiConnected = false
	e.voiceConnected = false
	e.audioRunning = false
	return nil
}

// emit delivers ev outside the lock.
func (e *Engine) emit(ev adapter.Event) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

func (e *Engine) record(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

// Link

// Connect mints a session token for the configured credentials and starts the
// voice link. It returns false when the link is already up or the engine is
// closed. Credential and token problems are reported through the event sink,
// as a real engine does once its login request completes.
func (e *Engine) Connect() bool {
	e.mu.Lock()
	e.record("Connect")
	if e.closed || e.apiConnected {
		e.mu.Unlock()
		return false
	}

	failure := e.connectFailure
	e.connectFailure = 0
	if failure == 0 {
		if _, err := strconv.Atoi(e.username); err != nil || e.password == "" {
			failure = adapter.APIErrorRejectedCredentials
		}
	}

	if failure == 0 {
		now := e.opts.Now()
		token, err := auth.NewSessionToken(e.username, now, e.opts.TokenTTL, e.opts.Secret)
		if err == nil {
			_, err = auth.InspectToken(token, now)
		}
		if err != nil {
			failure = auth.APIErrorFor(err)
		} else {
			e.token = token
		}
	}

	if failure != 0 {
		e.mu.Unlock()
		e.emit(adapter.APISessionError{Code: failure})
		return true
	}

	e.apiConnected = true
	e.voiceConnected = true
	e.audioRunning = true
	e.mu.Unlock()
	return true
}

// Disconnect drops the link. A live voice link raises
// VoiceServerDisconnected, as the voice server does when the client leaves.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	e.record("Disconnect")
	wasVoice := e.voiceConnected
	e.apiConnected = false
	e.voiceConnected = false
	e.token = ""
	e.mu.Unlock()

	if wasVoice {
		e.emit(adapter.VoiceServerDisconnected{})
	}
}

func (e *Engine) IsAPIConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apiConnected
}

func (e *Engine) IsVoiceConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voiceConnected
}

func (e *Engine) SetCredentials(username, password string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetCredentials(%s)", username)
	e.username = username
	e.password = password
}

func (e *Engine) SetCallsign(callsign string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetCallsign(%s)", callsign)
	e.callsign = callsign
}

func (e *Engine) SetClientPosition(pos adapter.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetClientPosition(%.6f,%.6f)", pos.Latitude, pos.Longitude)
	e.position = pos
}

// Frequencies

func (e *Engine) AddFrequency(freq int, callsign string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("AddFrequency(%d,%s)", freq, callsign)
	if _, ok := e.frequencies[freq]; ok {
		return
	}
	e.frequencies[freq] = &frequencyState{callsign: callsign}
}

func (e *Engine) RemoveFrequency(freq int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("RemoveFrequency(%d)", freq)
	delete(e.frequencies, freq)
}

func (e *Engine) IsFrequencyActive(freq int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.frequencies[freq]
	return ok
}

func (e *Engine) update(name string, freq int, value bool, apply func(*frequencyState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("%s(%d,%t)", name, freq, value)
	if f, ok := e.frequencies[freq]; ok {
		apply(f)
	}
}

func (e *Engine) get(freq int, read func(*frequencyState) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.frequencies[freq]; ok {
		return read(f)
	}
	return false
}

func (e *Engine) SetRx(freq int, on bool) {
	e.update("SetRx", freq, on, func(f *frequencyState) { f.rx = on })
}

func (e *Engine) SetTx(freq int, on bool) {
	e.update("SetTx", freq, on, func(f *frequencyState) { f.tx = on })
}

func (e *Engine) SetXc(freq int, on bool) {
	e.update("SetXc", freq, on, func(f *frequencyState) { f.xc = on })
}

func (e *Engine) SetOnHeadset(freq int, on bool) {
	e.update("SetOnHeadset", freq, on, func(f *frequencyState) { f.onHeadset = on })
}

func (e *Engine) GetRxState(freq int) bool {
	return e.get(freq, func(f *frequencyState) bool { return f.rx })
}

func (e *Engine) GetTxState(freq int) bool {
	return e.get(freq, func(f *frequencyState) bool { return f.tx })
}

func (e *Engine) GetXcState(freq int) bool {
	return e.get(freq, func(f *frequencyState) bool { return f.xc })
}

func (e *Engine) GetOnHeadset(freq int) bool {
	return e.get(freq, func(f *frequencyState) bool { return f.onHeadset })
}

// GetRxActive reports whether someone is currently heard on freq.
func (e *Engine) GetRxActive(freq int) bool {
	return e.get(freq, func(f *frequencyState) bool { return f.rx && f.receiving })
}

// GetTxActive reports whether the user is keyed on freq.
func (e *Engine) GetTxActive(freq int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.frequencies[freq]
	return ok && f.tx && e.ptt && e.voiceConnected
}

func (e *Engine) LastTransmitOnFrequency(freq int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.frequencies[freq]; ok {
		return f.lastTx
	}
	return ""
}

// Stations

// FetchStationVccs emits the VCCS list of station, empty when none is known.
func (e *Engine) FetchStationVccs(station string) {
	e.mu.Lock()
	e.record("FetchStationVccs(%s)", station)
	list := make(map[string]int, len(e.vccs[station]))
	for cs, freq := range e.vccs[station] {
		list[cs] = freq
	}
	e.mu.Unlock()
	e.emit(adapter.VCCSReceived{Station: station, Stations: list})
}

// GetStation emits a search result for callsign.
func (e *Engine) GetStation(callsign string) {
	e.mu.Lock()
	e.record("GetStation(%s)", callsign)
	freq, found := e.directory[callsign]
	e.mu.Unlock()
	e.emit(adapter.StationSearchResult{Found: found, Callsign: callsign, Frequency: freq})
}

// FetchTransceiverInfo emits a transceiver update for callsign.
func (e *Engine) FetchTransceiverInfo(callsign string) {
	e.mu.Lock()
	e.record("FetchTransceiverInfo(%s)", callsign)
	e.mu.Unlock()
	e.emit(adapter.TransceiversUpdated{Callsign: callsign})
}

func (e *Engine) UseTransceiversFromStation(callsign string, freq int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("UseTransceiversFromStation(%s,%d)", callsign, freq)
	e.linked[callsign] = freq
}

func (e *Engine) GetTransceiverCountForStation(callsign string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transceivers[callsign]
}

// Audio

func (e *Engine) GetAudioAPIs() []adapter.AudioAPI {
	return []adapter.AudioAPI{
		{ID: 0, Name: "Default API"},
		{ID: 1, Name: "Loopback"},
	}
}

func (e *Engine) GetAudioInputDevices(api int) []string {
	return []string{"Default Device", "Loopback Microphone"}
}

func (e *Engine) GetAudioOutputDevices(api int) []string {
	return []string{"Default Device", "Loopback Headset", "Loopback Speakers"}
}

func (e *Engine) SetAudioAPI(api int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetAudioAPI(%d)", api)
	e.audioAPI = api
}

func (e *Engine) SetAudioInputDevice(device string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetAudioInputDevice(%s)", device)
	e.inputDevice = device
}

func (e *Engine) SetAudioOutputDevice(device string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetAudioOutputDevice(%s)", device)
	e.outputDevice = device
}

func (e *Engine) SetAudioSpeakersOutputDevice(device string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetAudioSpeakersOutputDevice(%s)", device)
	e.speakerDevice = device
}

func (e *Engine) SetHardware(hw adapter.HardwareType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetHardware(%s)", hw)
	e.hardware = hw
}

func (e *Engine) SetHeadsetOutputChannel(channel int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetHeadsetOutputChannel(%d)", channel)
	e.headsetChannel = channel
}

func (e *Engine) SetEnableInputFilters(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetEnableInputFilters(%t)", on)
	e.inputFilters = on
}

func (e *Engine) SetEnableOutputEffects(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetEnableOutputEffects(%t)", on)
	e.outputEffects = on
}

func (e *Engine) IsAudioRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audioRunning
}

func (e *Engine) StopAudio() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("StopAudio")
	e.audioRunning = false
}

func (e *Engine) SetRadiosGain(gain float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("SetRadiosGain(%.2f)", gain)
	e.gain = gain
}

// SetPtt is called every frame, so it is not recorded.
func (e *Engine) SetPtt(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ptt = on
}

func (e *Engine) GetInputPeak() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputPeak
}

func (e *Engine) GetInputVu() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputVu
}
