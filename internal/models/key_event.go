package models

// Key event values as reported by the kernel input layer.
const (
	KeyUp     int32 = 0
	KeyDown   int32 = 1
	KeyRepeat int32 = 2
)

// EvKey is the EV_KEY event type.
const EvKey uint16 = 0x01

// KeyEvent is a single input event read from the trigger device.
type KeyEvent struct {
	Type  uint16 `json:"type"`
	Code  uint16 `json:"code"`
	Value int32  `json:"value"` // 0=up 1=down 2=repeat
}

// IsKeyDown reports whether the event is a key press (EV_KEY, value 1).
func (e KeyEvent) IsKeyDown() bool {
	return e.Type == EvKey && e.Value == KeyDown
}
