package session

import "fmt"

// Session is the user's network session.
type Session struct {
	CID      int
	Password string
	Callsign string
	// Facility > 0 means a transmit-capable role.
	Facility int
	// Frequency is the primary frequency in Hz.
	Frequency int

	Latitude    float64
	Longitude   float64
	HasPosition bool

	// IsConnected is sourced from the external connectivity check.
	IsConnected bool
	// ManuallyDisconnected marks a user-initiated disconnect so the
	// resulting voice-server disconnect does not sound the alarm.
	ManuallyDisconnected bool
}

// String renders the session without its password.
func (s Session) String() string {
	return fmt.Sprintf("Session{CID:%d Callsign:%s Facility:%d Frequency:%d Connected:%t}",
		s.CID, s.Callsign, s.Facility, s.Frequency, s.IsConnected)
}

// Connectivity is the result of an external connectivity check.
type Connectivity struct {
	Connected   bool
	Callsign    string
	Frequency   int
	Facility    int
	Latitude    float64
	Longitude   float64
	HasPosition bool
}

// Apply copies c into s. Empty callsign and zero frequency leave the current
// values in place. Facility is taken as reported whenever the session is
// connected, so a controller reconnecting as an observer drops to 0; an
// offline check keeps the last known facility.
func (s *Session) Apply(c Connectivity) {
	s.IsConnected = c.Connected
	if c.Callsign != "" {
		s.Callsign = c.Callsign
	}
	if c.Frequency > 0 {
		s.Frequency = c.Frequency
	}
	if c.Connected {
		s.Facility = c.Facility
	}
	s.HasPosition = c.HasPosition
	if c.HasPosition {
		s.Latitude = c.Latitude
		s.Longitude = c.Longitude
	}
}
