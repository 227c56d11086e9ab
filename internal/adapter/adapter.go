package adapter

// ClientName identifies this client to the voice network and to status consumers.
const ClientName = "VectorAudio"

// HardwareType selects the radio hardware model simulated by the engine.
type HardwareType int

const (
	HardwareSchmidED137B HardwareType = iota
	HardwareRockwellCollins2100
	HardwareGarexVCS
)

// String returns the hardware model name.
func (h HardwareType) String() string {
	switch h {
	case HardwareSchmidED137B:
		return "Schmid ED-137B"
	case HardwareRockwellCollins2100:
		return "Rockwell Collins 2100"
	case HardwareGarexVCS:
		return "Garex VCS"
	default:
		return "unknown"
	}
}

// AudioAPI is an audio backend offered by the engine.
type AudioAPI struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Position is the client's geographic position pushed to the engine.
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	// Height above mean sea level and above ground, in metres.
	AltitudeMSL float64 `json:"amslm"`
	AltitudeAGL float64 `json:"aglm"`
}

// Link controls the connection to the AFV API and voice server.
type Link interface {
	// Connect starts the API handshake. It returns false when the engine
	// considers itself already connected.
	Connect() bool
	Disconnect()
	IsAPIConnected() bool
	IsVoiceConnected() bool

	SetCredentials(username, password string)
	SetCallsign(callsign string)
	SetClientPosition(pos Position)
}

// Frequencies controls the per-frequency radio state held inside the engine.
type Frequencies interface {
	AddFrequency(frequency int, callsign string)
	RemoveFrequency(frequency int)
	IsFrequencyActive(frequency int) bool

	SetRx(frequency int, on bool)
	SetTx(frequency int, on bool)
	SetXc(frequency int, on bool)
	GetRxState(frequency int) bool
	GetTxState(frequency int) bool
	GetXcState(frequency int) bool
	GetRxActive(frequency int) bool
	GetTxActive(frequency int) bool

	SetOnHeadset(frequency int, onHeadset bool)
	GetOnHeadset(frequency int) bool

	// LastTransmitOnFrequency returns the callsign last heard on the frequency.
	LastTransmitOnFrequency(frequency int) string
}

// Stations queries the AFV station database. Results arrive as events.
type Stations interface {
	FetchStationVccs(callsign string)
	GetStation(callsign string)
	FetchTransceiverInfo(callsign string)
	UseTransceiversFromStation(callsign string, frequency int)
	GetTransceiverCountForStation(callsign string) int
}

// Audio controls device selection and the audio pipeline.
type Audio interface {
	GetAudioAPIs() []AudioAPI
	GetAudioInputDevices(api int) []string
	GetAudioOutputDevices(api int) []string

	SetAudioAPI(api int)
	SetAudioInputDevice(name string)
	SetAudioOutputDevice(name string)
	SetAudioSpeakersOutputDevice(name string)
	SetHardware(hw HardwareType)
	SetHeadsetOutputChannel(channel int)
	SetEnableInputFilters(on bool)
	SetEnableOutputEffects(on bool)

	IsAudioRunning() bool
	StopAudio()

	SetRadiosGain(gain float32)
	SetPtt(open bool)
	GetInputPeak() float64
	GetInputVu() float64
}

// EventSink receives engine events. Engines may call it from any goroutine.
type EventSink func(Event)

// Engine is the full client engine contract. Implementations must be safe for
// concurrent use: the status server queries rx/tx state from its own goroutines.
type Engine interface {
	Link
	Frequencies
	Stations
	Audio

	RegisterEventSink(sink EventSink)

	// Close releases the engine. The engine must not be used afterwards;
	// closing it again returns ErrEngineClosed.
	Close() error
}
