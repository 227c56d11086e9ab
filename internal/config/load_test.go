package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	config, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.General.APIPort != 49080 {
		t.Errorf("Expected api port 49080, got %d", config.General.APIPort)
	}
	if config.General.EventsEnabled {
		t.Error("Expected events stream disabled by default")
	}
	if config.Timing.SnapshotRefresh != 300*time.Millisecond {
		t.Errorf("Expected snapshot refresh 300ms, got %v", config.Timing.SnapshotRefresh)
	}
	if config.User.PTT != -1 || config.User.JoystickID != -1 || config.User.JoystickPTT != -1 {
		t.Errorf("Expected PTT unbound by default, got %+v", config.User)
	}
	if !config.Audio.VHFEffects || !config.Audio.InputFilters {
		t.Error("Expected VHF effects and input filters enabled by default")
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() with missing file failed: %v", err)
	}
	if config.General.APIPort != 49080 {
		t.Errorf("Expected default api port, got %d", config.General.APIPort)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[general]
api_port = 50000
events_enabled = true

[user]
vatsim_id = 1234567
vatsim_password = "hunter2"
ptt = 57
joyStickId = 1
joyStickPtt = 4

[audio]
api = "WASAPI"
output_device = "Speakers"
headset_channel = 1
vhf_effects = false

[timing]
snapshot_refresh = "500ms"
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.General.APIPort != 50000 || !config.General.EventsEnabled {
		t.Errorf("general section not applied: %+v", config.General)
	}
	if config.User.CID != 1234567 || config.User.Password != "hunter2" {
		t.Errorf("credentials not applied: %+v", config.User)
	}
	if config.User.PTT != 57 || config.User.JoystickID != 1 || config.User.JoystickPTT != 4 {
		t.Errorf("ptt binding not applied: %+v", config.User)
	}
	if config.Audio.API != "WASAPI" || config.Audio.OutputDevice != "Speakers" || config.Audio.HeadsetChannel != 1 {
		t.Errorf("audio section not applied: %+v", config.Audio)
	}
	if config.Audio.VHFEffects {
		t.Error("Expected vhf_effects = false from file")
	}
	if !config.Audio.InputFilters {
		t.Error("Keys absent from the file should keep their defaults")
	}
	if config.Timing.SnapshotRefresh != 500*time.Millisecond {
		t.Errorf("Expected snapshot refresh 500ms, got %v", config.Timing.SnapshotRefresh)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
general:
  api_port: 50001
session:
  callsign: LFPG_TWR
  frequency: "118.650"
  facility: 4
timing:
  frame_interval: 20ms
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.General.APIPort != 50001 {
		t.Errorf("Expected api port 50001, got %d", config.General.APIPort)
	}
	if config.Session.Callsign != "LFPG_TWR" || config.Session.Frequency != "118.650" || config.Session.Facility != 4 {
		t.Errorf("session section not applied: %+v", config.Session)
	}
	if config.Timing.FrameInterval != 20*time.Millisecond {
		t.Errorf("Expected frame interval 20ms, got %v", config.Timing.FrameInterval)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[general\napi_port = ")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("VECTORAUDIO_GENERAL_API_PORT", "51000")
	t.Setenv("VECTORAUDIO_USER_VATSIM_PASSWORD", "from-env")
	t.Setenv("VECTORAUDIO_AUDIO_RADIO_GAIN", "150")
	t.Setenv("VECTORAUDIO_TIMING_AIRPORT_WAIT", "5s")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.General.APIPort != 51000 {
		t.Errorf("Expected api port 51000, got %d", config.General.APIPort)
	}
	if config.User.Password != "from-env" {
		t.Errorf("Expected password from env, got %q", config.User.Password)
	}
	if config.Audio.RadioGain != 150 {
		t.Errorf("Expected radio gain 150, got %d", config.Audio.RadioGain)
	}
	if config.Timing.AirportWait != 5*time.Second {
		t.Errorf("Expected airport wait 5s, got %v", config.Timing.AirportWait)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[general]\napi_port = 50000\n")
	t.Setenv("VECTORAUDIO_GENERAL_API_PORT", "50002")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if config.General.APIPort != 50002 {
		t.Errorf("Expected env to win over file, got %d", config.General.APIPort)
	}
}

func TestInvalidEnvironmentValue(t *testing.T) {
	t.Setenv("VECTORAUDIO_GENERAL_API_PORT", "not-a-port")

	if _, err := Load(""); err == nil {
		t.Error("Expected error for unparsable env override")
	}
}
