package main

import (
	"fmt"

	"github.com/19wintersp/VectorAudio/internal/config"
	"github.com/19wintersp/VectorAudio/internal/radio"
	"github.com/19wintersp/VectorAudio/internal/session"
)

// staticConnectivity reports the session described in the configuration.
type staticConnectivity struct {
	cfg config.SessionConfig
}

var _ session.ConnectivityChecker = staticConnectivity{}

func (s staticConnectivity) CheckConnectivity() (session.Connectivity, error) {
	conn := session.Connectivity{
		Connected:   s.cfg.Online,
		Callsign:    s.cfg.Callsign,
		Facility:    s.cfg.Facility,
		Latitude:    s.cfg.Latitude,
		Longitude:   s.cfg.Longitude,
		HasPosition: s.cfg.HasPosition(),
	}
	if s.cfg.Frequency != "" {
		freq, err := radio.ParseFrequency(s.cfg.Frequency)
		if err != nil {
			return session.Connectivity{}, fmt.Errorf("session frequency: %w", err)
		}
		conn.Frequency = freq
	}
	return conn, nil
}
