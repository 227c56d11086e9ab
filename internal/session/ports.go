package session

import (
	"github.com/19wintersp/VectorAudio/internal/airport"
	"github.com/19wintersp/VectorAudio/internal/audit"
	"github.com/19wintersp/VectorAudio/internal/notify"
)

// Notifier surfaces user-visible failures without blocking.
type Notifier interface {
	ShowError(message string)
	PlayAlarm()
}

// AirportLookup resolves an ICAO code once its table is ready.
type AirportLookup interface {
	Ready() <-chan struct{}
	Lookup(icao string) (airport.Airport, bool)
}

// PilotLocator finds a connected pilot's position.
type PilotLocator interface {
	PilotPosition(callsign string) (latitude, longitude float64, ok bool)
}

// ConnectivityChecker reports whether the user is connected to the network.
// It may block.
type ConnectivityChecker interface {
	CheckConnectivity() (Connectivity, error)
}

// AuditLogger records session actions.
type AuditLogger interface {
	Record(callsign, action string, params map[string]interface{}, err error)
}

var (
	_ Notifier      = (*notify.Notifier)(nil)
	_ AirportLookup = (*airport.Table)(nil)
	_ AuditLogger   = (*audit.Logger)(nil)
)
