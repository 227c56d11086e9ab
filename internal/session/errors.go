package session

// Error is a session failure with a stable code.
type Error struct {
	code    string
	message string
}

func (e *Error) Error() string { return e.message }

// Code returns the stable error code.
func (e *Error) Code() string { return e.code }

var (
	// ErrNotConnected means the user is not connected to the network.
	ErrNotConnected = &Error{"NOT_CONNECTED", "not connected to VATSIM"}
	// ErrAlreadyLinked means the engine already reports a link.
	ErrAlreadyLinked = &Error{"ALREADY_LINKED", "engine already linked"}
	// ErrVoiceDisconnected means the operation needs a voice link.
	ErrVoiceDisconnected = &Error{"VOICE_DISCONNECTED", "voice not connected"}
	// ErrEmptyQuery means a search was issued without a callsign.
	ErrEmptyQuery = &Error{"EMPTY_QUERY", "empty search query"}
	// ErrUnicomActive means a UNICOM station already exists.
	ErrUnicomActive = &Error{"UNICOM_ACTIVE", "another UNICOM frequency is active"}
	// ErrPilotNotFound means the pilot of a UNICOM search is not connected.
	ErrPilotNotFound = &Error{"PILOT_NOT_FOUND", "pilot not found"}
	// ErrUnknownStation means no station is registered on the frequency.
	ErrUnknownStation = &Error{"UNKNOWN_STATION", "no station on frequency"}
	// ErrNotTransmitCapable means the facility cannot transmit.
	ErrNotTransmitCapable = &Error{"NOT_TX_CAPABLE", "facility cannot transmit"}
)
