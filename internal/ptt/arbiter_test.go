package ptt

import (
	"testing"

	"github.com/19wintersp/VectorAudio/internal/config"
)

// MockSetter records every SetPtt call.
type MockSetter struct {
	Calls []bool
}

func (m *MockSetter) SetPtt(open bool) { m.Calls = append(m.Calls, open) }

// MockKeys reports a fixed set of pressed scancodes.
type MockKeys struct {
	Down  map[int]bool
	Polls int
}

func (m *MockKeys) KeyDown(scancode int) bool {
	m.Polls++
	return m.Down[scancode]
}

// MockButtons reports a fixed set of pressed buttons.
type MockButtons struct {
	Down  map[[2]int]bool
	Polls int
}

func (m *MockButtons) ButtonDown(joystick, button int) bool {
	m.Polls++
	return m.Down[[2]int{joystick, button}]
}

func TestAdvanceLatchesEdges(t *testing.T) {
	setter := &MockSetter{}
	keys := &MockKeys{Down: map[int]bool{}}
	a := NewArbiter(setter, keys, nil, Binding{Scancode: 57, Joystick: Unbound, Button: Unbound})

	steps := []struct {
		down    bool
		changed bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{false, true},
		{false, false},
	}

	for i, step := range steps {
		keys.Down[57] = step.down
		if got := a.Advance(true); got != step.changed {
			t.Errorf("step %d: changed = %t, want %t", i, got, step.changed)
		}
		if a.IsOpen() != step.down {
			t.Errorf("step %d: open = %t, want %t", i, a.IsOpen(), step.down)
		}
	}

	if len(setter.Calls) != len(steps) {
		t.Fatalf("Expected SetPtt every pass, got %d calls", len(setter.Calls))
	}
	for i, step := range steps {
		if setter.Calls[i] != step.down {
			t.Errorf("call %d = %t, want %t", i, setter.Calls[i], step.down)
		}
	}
}

func TestAdvanceRequiresVoice(t *testing.T) {
	setter := &MockSetter{}
	keys := &MockKeys{Down: map[int]bool{57: true}}
	a := NewArbiter(setter, keys, nil, Binding{Scancode: 57, Joystick: Unbound, Button: Unbound})

	if a.Advance(false) {
		t.Error("Advance() changed state without voice")
	}
	if len(setter.Calls) != 0 || keys.Polls != 0 {
		t.Error("nothing should be polled or pushed without voice")
	}
}

func TestAdvanceUnbound(t *testing.T) {
	setter := &MockSetter{}
	a := NewArbiter(setter, &MockKeys{}, &MockButtons{}, Binding{Scancode: Unbound, Joystick: Unbound, Button: Unbound})

	a.Advance(true)

	if len(setter.Calls) != 0 {
		t.Error("SetPtt must not be called without a bound input")
	}
}

func TestJoystickTakesPriority(t *testing.T) {
	setter := &MockSetter{}
	keys := &MockKeys{Down: map[int]bool{57: true}}
	buttons := &MockButtons{Down: map[[2]int]bool{}}
	a := NewArbiter(setter, keys, buttons, Binding{Scancode: 57, Joystick: 0, Button: 3})

	a.Advance(true)
	if a.IsOpen() {
		t.Error("key state must be ignored when a joystick is bound")
	}
	if keys.Polls != 0 || buttons.Polls != 1 {
		t.Errorf("Expected only the joystick polled, got keys=%d buttons=%d", keys.Polls, buttons.Polls)
	}

	buttons.Down[[2]int{0, 3}] = true
	a.Advance(true)
	if !a.IsOpen() {
		t.Error("Expected open on button press")
	}
}

func TestNilPollerCountsAsUnbound(t *testing.T) {
	setter := &MockSetter{}
	keys := &MockKeys{Down: map[int]bool{57: true}}
	a := NewArbiter(setter, keys, nil, Binding{Scancode: 57, Joystick: 0, Button: 3})

	a.Advance(true)

	if !a.IsOpen() || keys.Polls != 1 {
		t.Error("Expected fallback to the keyboard when no joystick poller exists")
	}
}

func TestBindingFromConfig(t *testing.T) {
	b := BindingFromConfig(config.Defaults().User)
	if b.Scancode != Unbound || b.Joystick != Unbound || b.Button != Unbound {
		t.Errorf("Expected defaults unbound, got %+v", b)
	}
}
