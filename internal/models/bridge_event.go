package models

import "time"

// Journal event types.
const (
	EventKey      = "KEY"
	EventTrigger  = "TRIGGER"
	EventProbe    = "PROBE"
	EventShutdown = "SHUTDOWN"
	EventWake     = "WAKE"
	EventSerial   = "SERIAL"
	EventBuzzer   = "BUZZER"
	EventError    = "ERROR"
)

// BridgeEvent is a single journal entry.
type BridgeEvent struct {
	EventID     string    `json:"event_id"`
	RunID       string    `json:"run_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // KEY | TRIGGER | PROBE | SHUTDOWN | WAKE | SERIAL | BUZZER | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
