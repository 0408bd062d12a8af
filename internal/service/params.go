package service

import (
	"time"

	"irwake/internal/models"
)

// LogFilter supports history filtering by time range, type and run.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "KEY", "TRIGGER", "PROBE", "SHUTDOWN", "WAKE", "SERIAL", "BUZZER", "ERROR"
	RunID string    // "" means every run
}

// Run outcomes reported by the status service.
const (
	OutcomeNameShutdown   = "shutdown"
	OutcomeNameWake       = "wake"
	OutcomeNameIdle       = "idle"
	OutcomeNameIncomplete = "incomplete"
)

// RunSummary describes one trigger-to-completion sequence from the journal.
type RunSummary struct {
	RunID      string
	Outcome    string // shutdown | wake | idle | incomplete
	StartedAt  time.Time
	FinishedAt time.Time
	Errors     int
	Events     []models.BridgeEvent
}
