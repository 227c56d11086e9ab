package notify

import (
	"log"
	"os"
	"sync/atomic"
)

// Player plays a sound file. Implementations must not block for the
// duration of the sound.
type Player interface {
	Play(path string) error
}

// LogPlayer only logs, for headless runs.
type LogPlayer struct{}

// Play logs path.
func (LogPlayer) Play(path string) error {
	log.Printf("notify: alarm %s", path)
	return nil
}

// Alarm plays the disconnect sound. A missing sound asset degrades the alarm
// to a no-op; that is logged once at construction.
type Alarm struct {
	path     string
	player   Player
	degraded bool
	played   atomic.Int64
}

// NewAlarm checks that path exists and binds it to player.
func NewAlarm(path string, player Player) *Alarm {
	a := &Alarm{path: path, player: player}
	if _, err := os.Stat(path); err != nil {
		log.Printf("notify: disconnect sound unavailable, alarm disabled: %v", err)
		a.degraded = true
	}
	if player == nil {
		a.degraded = true
	}
	return a
}

// Degraded reports whether the alarm is silent.
func (a *Alarm) Degraded() bool {
	return a.degraded
}

// Play sounds the alarm unless degraded.
func (a *Alarm) Play() {
	if a.degraded {
		return
	}
	a.played.Add(1)
	if err := a.player.Play(a.path); err != nil {
		log.Printf("notify: failed to play %s: %v", a.path, err)
	}
}

// Played returns how many times the alarm sounded.
func (a *Alarm) Played() int64 {
	return a.played.Load()
}
