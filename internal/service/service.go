package service

import (
	"context"
	"time"

	"irwake/internal/models"
	"irwake/internal/repository"
)

// Orchestrator is the single-threaded decision loop.
// Stop via context cancellation in main() and closing the event source.
type Orchestrator interface {
	Run(ctx context.Context, src EventSource) error
	Handle(ctx context.Context, ev models.KeyEvent) Outcome
	State() State
}

// History exposes the journal with filtering access.
type History interface {
	List(ctx context.Context, f LogFilter) ([]models.BridgeEvent, error)
}

// Status summarizes the most recent orchestration run.
type Status interface {
	LastRun(ctx context.Context) (RunSummary, error)
}

// EventSource yields key events; Next blocks until one is available.
type EventSource interface {
	Next() (models.KeyEvent, error)
}

// Prober reports whether the remote host is up. It never fails.
type Prober interface {
	Alive(ctx context.Context, host string) bool
}

// Network sends the fire-and-forget signals to the remote host.
type Network interface {
	SendShutdown(ctx context.Context) error
	SendWake(ctx context.Context) error
}

// Projector sends a command frame and returns the raw response.
type Projector interface {
	Send(ctx context.Context, cmd models.SerialCommand) ([]byte, error)
}

// Buzzer gives audible feedback by pulsing a control line.
type Buzzer interface {
	Pulse(ctx context.Context, d time.Duration) error
}

// Metrics receives counters from the loop.
type Metrics interface {
	KeyEvent()
	Trigger()
	Probe(alive bool)
	ActuatorFailure(actuator string)
	Sequence(kind string, d time.Duration)
	Flush() error
}

// Service aggregates the bridge services.
type Service struct {
	Orchestrator
	History
	Status
}

// NewService wires the journal and the device actuators into concrete services.
func NewService(repos *repository.Repository, cfg OrchestratorConfig, deps Deps) *Service {
	return &Service{
		Orchestrator: NewOrchestratorService(cfg, repos.EventRepo, deps),
		History:      NewHistoryService(repos.EventRepo),
		Status:       NewStatusService(repos.EventRepo),
	}
}
