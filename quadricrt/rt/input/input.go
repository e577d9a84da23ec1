package input

// Key identifies a keyboard key independently of the windowing backend.
type Key int

const (
	KeyA Key = iota
	KeyD
	KeyE
	KeyQ
	KeyS
	KeyW
	KeySpace
	KeyEscape
	KeyTab
	KeyShift
	KeyControl
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	keyCount
)

var keyNames = [keyCount]string{
	KeyA:       "A",
	KeyD:       "D",
	KeyE:       "E",
	KeyQ:       "Q",
	KeyS:       "S",
	KeyW:       "W",
	KeySpace:   "SPACE",
	KeyEscape:  "ESCAPE",
	KeyTab:     "TAB",
	KeyShift:   "SHIFT",
	KeyControl: "CONTROL",
	KeyUp:      "UP",
	KeyDown:    "DOWN",
	KeyLeft:    "LEFT",
	KeyRight:   "RIGHT",
}

// AllKeys lists every key in Key order.
func AllKeys() []Key {
	out := make([]Key, 0, keyCount)
	for k := Key(0); k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Key) String() string {
	if k >= 0 && k < keyCount {
		return keyNames[k]
	}
	return "UNKNOWN"
}

// State is a snapshot of the input devices for one frame.
type State struct {
	pressed map[Key]bool

	// Mouse movement since the previous frame, in pixels.
	MouseDeltaX, MouseDeltaY float64
	// Dragging is true while the primary mouse button is held.
	Dragging bool
}

// NewState returns a state with the given keys held down.
func NewState(keys ...Key) State {
	s := State{}
	for _, k := range keys {
		s.Press(k)
	}
	return s
}

func (s *State) Press(k Key) {
	if s.pressed == nil {
		s.pressed = make(map[Key]bool)
	}
	s.pressed[k] = true
}

func (s *State) Release(k Key) {
	delete(s.pressed, k)
}

// Pressed reports whether k is held. Unknown keys are simply not pressed.
func (s State) Pressed(k Key) bool {
	return s.pressed[k]
}

// Keys returns the held keys in Key order.
func (s State) Keys() []Key {
	var out []Key
	for k := Key(0); k < keyCount; k++ {
		if s.pressed[k] {
			out = append(out, k)
		}
	}
	return out
}
