package config

import (
	"path/filepath"
	"time"
)

// Config is the complete client configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general" envPrefix:"GENERAL_"`
	User    UserConfig    `toml:"user" yaml:"user" envPrefix:"USER_"`
	Audio   AudioConfig   `toml:"audio" yaml:"audio" envPrefix:"AUDIO_"`
	Session SessionConfig `toml:"session" yaml:"session" envPrefix:"SESSION_"`
	Paths   PathsConfig   `toml:"paths" yaml:"paths" envPrefix:"PATHS_"`
	Log     LogConfig     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Timing  TimingConfig  `toml:"timing" yaml:"timing" envPrefix:"TIMING_"`
}

// GeneralConfig holds the status server settings.
type GeneralConfig struct {
	APIPort       int  `toml:"api_port" yaml:"api_port" env:"API_PORT"`
	EventsEnabled bool `toml:"events_enabled" yaml:"events_enabled" env:"EVENTS_ENABLED"`
	// EventBufferSize is the number of telemetry events kept for Last-Event-ID resume.
	EventBufferSize int `toml:"event_buffer_size" yaml:"event_buffer_size" env:"EVENT_BUFFER_SIZE"`
}

// UserConfig holds the network credentials and push-to-talk binding.
type UserConfig struct {
	CID      int    `toml:"vatsim_id" yaml:"vatsim_id" env:"VATSIM_ID"`
	Password string `toml:"vatsim_password" yaml:"vatsim_password" env:"VATSIM_PASSWORD"`

	// PTT is a keyboard scancode, -1 when unbound.
	PTT int `toml:"ptt" yaml:"ptt" env:"PTT"`
	// JoystickID and JoystickPTT select a joystick button, -1 when unbound.
	JoystickID  int `toml:"joyStickId" yaml:"joyStickId" env:"JOYSTICK_ID"`
	JoystickPTT int `toml:"joyStickPtt" yaml:"joyStickPtt" env:"JOYSTICK_PTT"`
}

// AudioConfig holds the device selection pushed into the engine on connect.
type AudioConfig struct {
	API            string `toml:"api" yaml:"api" env:"API"`
	InputDevice    string `toml:"input_device" yaml:"input_device" env:"INPUT_DEVICE"`
	OutputDevice   string `toml:"output_device" yaml:"output_device" env:"OUTPUT_DEVICE"`
	SpeakerDevice  string `toml:"speaker_device" yaml:"speaker_device" env:"SPEAKER_DEVICE"`
	HeadsetChannel int    `toml:"headset_channel" yaml:"headset_channel" env:"HEADSET_CHANNEL"`
	HardwareType   int    `toml:"hardware_type" yaml:"hardware_type" env:"HARDWARE_TYPE"`
	VHFEffects     bool   `toml:"vhf_effects" yaml:"vhf_effects" env:"VHF_EFFECTS"`
	InputFilters   bool   `toml:"input_filters" yaml:"input_filters" env:"INPUT_FILTERS"`
	// RadioGain is a percentage in [0, 200].
	RadioGain int `toml:"radio_gain" yaml:"radio_gain" env:"RADIO_GAIN"`
}

// SessionConfig describes the network session when no live data feed is attached.
type SessionConfig struct {
	Callsign string `toml:"callsign" yaml:"callsign" env:"CALLSIGN"`
	// Frequency in MHz, e.g. "118.700".
	Frequency string  `toml:"frequency" yaml:"frequency" env:"FREQUENCY"`
	Facility  int     `toml:"facility" yaml:"facility" env:"FACILITY"`
	Latitude  float64 `toml:"latitude" yaml:"latitude" env:"LATITUDE"`
	Longitude float64 `toml:"longitude" yaml:"longitude" env:"LONGITUDE"`
	Online    bool    `toml:"online" yaml:"online" env:"ONLINE"`
}

// HasPosition reports whether a position was supplied.
func (s SessionConfig) HasPosition() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// PathsConfig locates resources on disk.
type PathsConfig struct {
	Resources  string `toml:"resources" yaml:"resources" env:"RESOURCES"`
	AirportsDB string `toml:"airports_db" yaml:"airports_db" env:"AIRPORTS_DB"`
	LogDir     string `toml:"log_dir" yaml:"log_dir" env:"LOG_DIR"`
}

// DisconnectSound is the alarm asset inside the resources folder.
func (p PathsConfig) DisconnectSound() string {
	return filepath.Join(p.Resources, "disconnect.wav")
}

// LogConfig controls file logging rotation.
type LogConfig struct {
	File       string `toml:"file" yaml:"file" env:"FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days" env:"MAX_AGE_DAYS"`
}

// TimingConfig holds loop and server timing.
type TimingConfig struct {
	FrameInterval     time.Duration `toml:"frame_interval" yaml:"frame_interval" env:"FRAME_INTERVAL"`
	SnapshotRefresh   time.Duration `toml:"snapshot_refresh" yaml:"snapshot_refresh" env:"SNAPSHOT_REFRESH"`
	AirportWait       time.Duration `toml:"airport_wait" yaml:"airport_wait" env:"AIRPORT_WAIT"`
	ReadTimeout       time.Duration `toml:"read_timeout" yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `toml:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `toml:"idle_timeout" yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	HeartbeatInterval time.Duration `toml:"heartbeat_interval" yaml:"heartbeat_interval" env:"HEARTBEAT_INTERVAL"`
	// ConnectivityInterval is how often the network connection is re-checked.
	ConnectivityInterval time.Duration `toml:"connectivity_interval" yaml:"connectivity_interval" env:"CONNECTIVITY_INTERVAL"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			APIPort:         49080,
			EventsEnabled:   false,
			EventBufferSize: 50,
		},
		User: UserConfig{
			CID:         999999,
			Password:    "password",
			PTT:         -1,
			JoystickID:  -1,
			JoystickPTT: -1,
		},
		Audio: AudioConfig{
			API:          "Default API",
			HardwareType: 0,
			VHFEffects:   true,
			InputFilters: true,
			RadioGain:    100,
		},
		Session: SessionConfig{
			Callsign: "No connection",
			Online:   true,
		},
		Paths: PathsConfig{
			Resources:  "resources",
			AirportsDB: filepath.Join("resources", "airports.json"),
			LogDir:     "logs",
		},
		Log: LogConfig{
			File:       "vectoraudio.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Timing: TimingConfig{
			FrameInterval:        16 * time.Millisecond,
			SnapshotRefresh:      300 * time.Millisecond,
			AirportWait:          2 * time.Second,
			ReadTimeout:          10 * time.Second,
			WriteTimeout:         10 * time.Second,
			IdleTimeout:          60 * time.Second,
			ShutdownTimeout:      5 * time.Second,
			HeartbeatInterval:    15 * time.Second,
			ConnectivityInterval: 15 * time.Second,
		},
	}
}
