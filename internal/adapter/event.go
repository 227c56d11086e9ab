package adapter

import "fmt"

// Event is a notification raised by the engine. The set of implementations is
// closed; consumers switch on the concrete type.
type Event interface {
	Kind() string
	isEvent()
}

// VCCSReceived carries the VCCS (voice communication control system) list of a
// station: callsign to frequency in Hz.
type VCCSReceived struct {
	Station  string
	Stations map[string]int
}

// TransceiversUpdated reports that the transceiver set of a station changed.
type TransceiversUpdated struct {
	Callsign string
}

// StationSearchResult answers a GetStation query.
type StationSearchResult struct {
	Found     bool
	Callsign  string
	Frequency int
}

// RxClosed reports that reception stopped on a frequency.
type RxClosed struct {
	Frequency int
}

// APISessionError reports a failure of the AFV API session.
type APISessionError struct {
	Code APIErrorCode
}

// AudioError reports that the audio devices could not be started.
type AudioError struct{}

// VoiceServerDisconnected reports that the voice link closed.
type VoiceServerDisconnected struct{}

// VoiceServerError reports a voice server failure code.
type VoiceServerError struct {
	Code int
}

// VoiceServerChannelError reports a voice channel failure code.
type VoiceServerChannelError struct {
	Code int
}

// AudioDeviceStopped reports that an audio device stopped working.
type AudioDeviceStopped struct {
	Device string
}

func (VCCSReceived) Kind() string            { return "vccs_received" }
func (TransceiversUpdated) Kind() string     { return "transceivers_updated" }
func (StationSearchResult) Kind() string     { return "station_search_result" }
func (RxClosed) Kind() string                { return "rx_closed" }
func (APISessionError) Kind() string         { return "api_session_error" }
func (AudioError) Kind() string              { return "audio_error" }
func (VoiceServerDisconnected) Kind() string { return "voice_server_disconnected" }
func (VoiceServerError) Kind() string        { return "voice_server_error" }
func (VoiceServerChannelError) Kind() string { return "voice_server_channel_error" }
func (AudioDeviceStopped) Kind() string      { return "audio_device_stopped" }

func (VCCSReceived) isEvent()            {}
func (TransceiversUpdated) isEvent()     {}
func (StationSearchResult) isEvent()     {}
func (RxClosed) isEvent()                {}
func (APISessionError) isEvent()         {}
func (AudioError) isEvent()              {}
func (VoiceServerDisconnected) isEvent() {}
func (VoiceServerError) isEvent()        {}
func (VoiceServerChannelError) isEvent() {}
func (AudioDeviceStopped) isEvent()      {}

// Describe renders an event for log lines.
func Describe(e Event) string {
	switch ev := e.(type) {
	case VCCSReceived:
		return fmt.Sprintf("%s station=%s entries=%d", ev.Kind(), ev.Station, len(ev.Stations))
	case TransceiversUpdated:
		return fmt.Sprintf("%s callsign=%s", ev.Kind(), ev.Callsign)
	case StationSearchResult:
		return fmt.Sprintf("%s found=%t callsign=%s frequency=%d", ev.Kind(), ev.Found, ev.Callsign, ev.Frequency)
	case RxClosed:
		return fmt.Sprintf("%s frequency=%d", ev.Kind(), ev.Frequency)
	case APISessionError:
		return fmt.Sprintf("%s code=%s", ev.Kind(), ev.Code)
	case VoiceServerError:
		return fmt.Sprintf("%s code=%d", ev.Kind(), ev.Code)
	case VoiceServerChannelError:
		return fmt.Sprintf("%s code=%d", ev.Kind(), ev.Code)
	case AudioDeviceStopped:
		return fmt.Sprintf("%s device=%q", ev.Kind(), ev.Device)
	case nil:
		return "<nil>"
	default:
		return e.Kind()
	}
}
