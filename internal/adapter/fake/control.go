package fake

import (
	"github.com/19wintersp/VectorAudio/internal/adapter"
)

// Helpers for driving the fake from tests and the headless runner.

// Raise delivers ev to the sink as if the engine produced it.
func (e *Engine) Raise(ev adapter.Event) {
	e.emit(ev)
}

// FailNextConnect makes the next Connect report code instead of linking.
func (e *Engine) FailNextConnect(code adapter.APIErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connectFailure = code
}

// FailNextConnectWith makes the next Connect report the code err classifies
// to, as a backend request failing with err would.
func (e *Engine) FailNextConnectWith(err error) {
	e.FailNextConnect(adapter.ClassifyAPIError(err))
}

// SetAPIConnected forces the API link state.
func (e *Engine) SetAPIConnected(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apiConnected = on
}

// SetVoiceConnected forces the voice link state.
func (e *Engine) SetVoiceConnected(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voiceConnected = on
}

// DropVoice simulates the voice server going away and raises
// VoiceServerDisconnected.
func (e *Engine) DropVoice() {
	e.mu.Lock()
	e.voiceConnected = false
	e.apiConnected = false
	e.mu.Unlock()
	e.emit(adapter.VoiceServerDisconnected{})
}

// AddDirectoryStation makes GetStation find callsign on freq.
func (e *Engine) AddDirectoryStation(callsign string, freq int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.directory[callsign] = freq
}

// SetVCCS sets the VCCS list FetchStationVccs reports for station.
func (e *Engine) SetVCCS(station string, list map[string]int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vccs[station] = list
}

// SetStationTransceivers sets the transceiver count of callsign.
func (e *Engine) SetStationTransceivers(callsign string, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transceivers[callsign] = count
}

// SimulateReception marks freq as carrying a transmission from callsign.
// Ending a reception raises RxClosed.
func (e *Engine) SimulateReception(freq int, callsign string, active bool) {
	e.mu.Lock()
	f, ok := e.frequencies[freq]
	if !ok {
		e.mu.Unlock()
		return
	}
	wasActive := f.receiving
	f.receiving = active
	if active {
		f.lastTx = callsign
	}
	e.mu.Unlock()

	if wasActive && !active {
		e.emit(adapter.RxClosed{Frequency: freq})
	}
}

// SetInputLevels sets the values returned by GetInputPeak and GetInputVu.
func (e *Engine) SetInputLevels(peak, vu float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputPeak = peak
	e.inputVu = vu
}

// Calls returns the recorded engine calls in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

// ResetCalls clears the call log.
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// State is a point-in-time view of the non-frequency settings.
type State struct {
	Username       string
	Callsign       string
	Position       adapter.Position
	Token          string
	AudioAPI       int
	InputDevice    string
	OutputDevice   string
	SpeakerDevice  string
	Hardware       adapter.HardwareType
	HeadsetChannel int
	InputFilters   bool
	OutputEffects  bool
	Gain           float32
	PTT            bool
	LinkedStations map[string]int
}

// Snapshot returns the current settings.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	linked := make(map[string]int, len(e.linked))
	for cs, freq := range e.linked {
		linked[cs] = freq
	}
	return State{
		Username:       e.username,
		Callsign:       e.callsign,
		Position:       e.position,
		Token:          e.token,
		AudioAPI:       e.audioAPI,
		InputDevice:    e.inputDevice,
		OutputDevice:   e.outputDevice,
		SpeakerDevice:  e.speakerDevice,
		Hardware:       e.hardware,
		HeadsetChannel: e.headsetChannel,
		InputFilters:   e.inputFilters,
		OutputEffects:  e.outputEffects,
		Gain:           e.gain,
		PTT:            e.ptt,
		LinkedStations: linked,
	}
}
