package config

import (
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("Defaults() should validate, got %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.General.APIPort = 0 }},
		{"port too large", func(c *Config) { c.General.APIPort = 70000 }},
		{"empty event buffer", func(c *Config) { c.General.EventBufferSize = 0 }},
		{"gain above range", func(c *Config) { c.Audio.RadioGain = 201 }},
		{"negative gain", func(c *Config) { c.Audio.RadioGain = -1 }},
		{"unknown hardware", func(c *Config) { c.Audio.HardwareType = 3 }},
		{"negative headset channel", func(c *Config) { c.Audio.HeadsetChannel = -1 }},
		{"bad frequency", func(c *Config) { c.Session.Frequency = "one-eighteen" }},
		{"negative facility", func(c *Config) { c.Session.Facility = -1 }},
		{"latitude out of range", func(c *Config) { c.Session.Latitude = 91 }},
		{"longitude out of range", func(c *Config) { c.Session.Longitude = -181 }},
		{"zero frame interval", func(c *Config) { c.Timing.FrameInterval = 0 }},
		{"zero snapshot refresh", func(c *Config) { c.Timing.SnapshotRefresh = 0 }},
		{"zero connectivity interval", func(c *Config) { c.Timing.ConnectivityInterval = 0 }},
		{"negative airport wait", func(c *Config) { c.Timing.AirportWait = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Defaults()
			tt.mutate(config)
			if err := Validate(config); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSessionHasPosition(t *testing.T) {
	var s SessionConfig
	if s.HasPosition() {
		t.Error("zero session should have no position")
	}
	s.Latitude = 48.9
	if !s.HasPosition() {
		t.Error("session with latitude should have a position")
	}
}

func TestDisconnectSoundPath(t *testing.T) {
	p := PathsConfig{Resources: "res"}
	if got := p.DisconnectSound(); got != "res/disconnect.wav" && got != `res\disconnect.wav` {
		t.Errorf("DisconnectSound() = %q", got)
	}
}
