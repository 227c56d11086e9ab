package config

import (
	"fmt"
	"time"

	"github.com/19wintersp/VectorAudio/internal/radio"
)

// Validate checks the merged configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateGeneral(&cfg.General); err != nil {
		return fmt.Errorf("general: %w", err)
	}
	if err := validateAudio(&cfg.Audio); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if err := validateSession(&cfg.Session); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := validateTiming(&cfg.Timing); err != nil {
		return fmt.Errorf("timing: %w", err)
	}

	return nil
}

func validateGeneral(g *GeneralConfig) error {
	if g.APIPort < 1 || g.APIPort > 65535 {
		return fmt.Errorf("api_port must be in [1, 65535], got %d", g.APIPort)
	}
	if g.EventBufferSize <= 0 {
		return fmt.Errorf("event_buffer_size must be positive, got %d", g.EventBufferSize)
	}
	return nil
}

func validateAudio(a *AudioConfig) error {
	if a.RadioGain < 0 || a.RadioGain > 200 {
		return fmt.Errorf("radio_gain must be in [0, 200], got %d", a.RadioGain)
	}
	if a.HeadsetChannel < 0 {
		return fmt.Errorf("headset_channel must be non-negative, got %d", a.HeadsetChannel)
	}
	if a.HardwareType < 0 || a.HardwareType > 2 {
		return fmt.Errorf("hardware_type must be 0, 1 or 2, got %d", a.HardwareType)
	}
	return nil
}

func validateSession(s *SessionConfig) error {
	if s.Frequency != "" {
		if _, err := radio.ParseFrequency(s.Frequency); err != nil {
			return err
		}
	}
	if s.Facility < 0 {
		return fmt.Errorf("facility must be non-negative, got %d", s.Facility)
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", s.Longitude)
	}
	return nil
}

func validateTiming(t *TimingConfig) error {
	positive := []struct {
		name  string
		value time.Duration
	}{
		{"frame_interval", t.FrameInterval},
		{"snapshot_refresh", t.SnapshotRefresh},
		{"read_timeout", t.ReadTimeout},
		{"write_timeout", t.WriteTimeout},
		{"idle_timeout", t.IdleTimeout},
		{"shutdown_timeout", t.ShutdownTimeout},
		{"heartbeat_interval", t.HeartbeatInterval},
		{"connectivity_interval", t.ConnectivityInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.value)
		}
	}
	if t.AirportWait < 0 {
		return fmt.Errorf("airport_wait must be non-negative, got %v", t.AirportWait)
	}
	return nil
}
