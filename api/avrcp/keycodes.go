package avrcp

// KeyCode identifies a fixed playback control operation sent by key code.
type KeyCode byte

// The different passthrough key codes.
const (
	KeyPlay KeyCode = iota + 1
	KeyStop
	KeyPause
	KeyNext
	KeyPrevious
	KeyRewind
	KeyFastForward
)

// KeyState indicates whether a passthrough key is pressed or released.
type KeyState byte

// The different passthrough key states.
const (
	KeyPressed KeyState = iota
	KeyReleased
)

// passthroughOps maps passthrough key codes to their remote operation
// names. Built once; an absent key code is a lookup miss, never a panic.
var passthroughOps = map[KeyCode]string{
	KeyPlay:        "Play",
	KeyStop:        "Stop",
	KeyPause:       "Pause",
	KeyNext:        "Next",
	KeyPrevious:    "Previous",
	KeyRewind:      "Rewind",
	KeyFastForward: "FastForward",
}

// keyNames maps key codes to their display names.
var keyNames = map[KeyCode]string{
	KeyPlay:        "play",
	KeyStop:        "stop",
	KeyPause:       "pause",
	KeyNext:        "next",
	KeyPrevious:    "previous",
	KeyRewind:      "rewind",
	KeyFastForward: "fastforward",
}

// PassthroughOp returns the remote operation name for the provided key code.
func PassthroughOp(key KeyCode) (string, bool) {
	op, ok := passthroughOps[key]
	return op, ok
}

// ParseKeyCode returns the key code matching the provided display name.
func ParseKeyCode(name string) (KeyCode, bool) {
	for key, n := range keyNames {
		if n == name {
			return key, true
		}
	}

	return 0, false
}

// String returns the display name of the key code.
func (k KeyCode) String() string {
	return keyNames[k]
}
