// Package ptt arbitrates push-to-talk input between keyboard and joystick.
package ptt

import (
	"log"

	"github.com/19wintersp/VectorAudio/internal/config"
)

// Unbound marks an input that is not configured.
const Unbound = -1

// KeyPoller reports the physical state of a keyboard key by scancode.
type KeyPoller interface {
	KeyDown(scancode int) bool
}

// ButtonPoller reports the physical state of a joystick button.
type ButtonPoller interface {
	ButtonDown(joystick, button int) bool
}

// Setter receives the push-to-talk state.
type Setter interface {
	SetPtt(open bool)
}

// Binding selects the push-to-talk inputs.
type Binding struct {
	Scancode int
	Joystick int
	Button   int
}

// BindingFromConfig reads the binding from the user section.
func BindingFromConfig(user config.UserConfig) Binding {
	return Binding{
		Scancode: user.PTT,
		Joystick: user.JoystickID,
		Button:   user.JoystickPTT,
	}
}

// Arbiter latches the push-to-talk state across frames.
type Arbiter struct {
	engine  Setter
	keys    KeyPoller
	buttons ButtonPoller
	binding Binding

	open bool
}

// NewArbiter creates an arbiter. Either poller may be nil; its input then
// counts as unbound.
func NewArbiter(engine Setter, keys KeyPoller, buttons ButtonPoller, binding Binding) *Arbiter {
	a := &Arbiter{
		engine:  engine,
		keys:    keys,
		buttons: buttons,
		binding: binding,
	}
	if !a.joystickBound() && !a.keyBound() {
		log.Printf("ptt: no push-to-talk input configured")
	}
	return a
}

// IsOpen returns the latched state.
func (a *Arbiter) IsOpen() bool {
	return a.open
}

// Advance runs one pass. While voice is connected and an input is bound it
// polls exactly one input, joystick first, latches any edge and pushes the
// latched state to the engine. It reports whether the latch changed.
func (a *Arbiter) Advance(voiceConnected bool) bool {
	if !voiceConnected {
		return false
	}

	var pressed bool
	switch {
	case a.joystickBound():
		pressed = a.buttons.ButtonDown(a.binding.Joystick, a.binding.Button)
	case a.keyBound():
		pressed = a.keys.KeyDown(a.binding.Scancode)
	default:
		return false
	}

	changed := pressed != a.open
	a.open = pressed
	a.engine.SetPtt(a.open)
	return changed
}

func (a *Arbiter) joystickBound() bool {
	return a.buttons != nil && a.binding.Joystick != Unbound && a.binding.Button != Unbound
}

func (a *Arbiter) keyBound() bool {
	return a.keys != nil && a.binding.Scancode != Unbound
}
