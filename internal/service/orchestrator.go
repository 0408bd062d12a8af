package service

import (
	"context"
	"fmt"
	"time"

	"irwake/internal/clock"
	"irwake/internal/config"
	"irwake/internal/logger"
	"irwake/internal/metrics"
	"irwake/internal/models"
	"irwake/internal/repository"

	"github.com/google/uuid"
)

// State is the position of the decision loop.
type State int

const (
	StateIdle State = iota
	StateTriggered
	StateProbing
	StateShuttingDown
	StateWaking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateTriggered:
		return "Triggered"
	case StateProbing:
		return "Probing"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateWaking:
		return "Waking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is what Handle did with one event.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeShutdown
	OutcomeWake
)

// Actuator names used in logs, metrics and the journal.
const (
	actuatorBuzzer    = "buzzer"
	actuatorProbe     = "probe"
	actuatorShutdown  = "shutdown"
	actuatorWake      = "wake"
	actuatorProjector = "projector"
	actuatorSettle    = "settle"
)

// OrchestratorConfig is the slice of Config the loop needs.
type OrchestratorConfig struct {
	TriggerCode    uint16
	RemoteHost     string
	BuzzerPulse    time.Duration
	ShutdownSettle time.Duration
	PowerOn        models.SerialCommand
	PowerOff       models.SerialCommand
}

func NewOrchestratorConfig(cfg config.Config) OrchestratorConfig {
	return OrchestratorConfig{
		TriggerCode:    cfg.Input.TriggerCode,
		RemoteHost:     cfg.Remote.Host,
		BuzzerPulse:    cfg.Buzzer.Pulse,
		ShutdownSettle: cfg.Sequence.ShutdownSettle,
		PowerOn:        cfg.Projector.PowerOn,
		PowerOff:       cfg.Projector.PowerOff,
	}
}

// Deps are the collaborators of the loop.
type Deps struct {
	Prober    Prober
	Network   Network
	Projector Projector
	Buzzer    Buzzer
	Metrics   Metrics
	Clock     clock.Clock
	Log       *logger.Logger
}

// OrchestratorService reacts to the trigger key. It is not safe for
// concurrent use; exactly one goroutine drives it.
type OrchestratorService struct {
	cfg       OrchestratorConfig
	eventRepo repository.EventRepo

	prober    Prober
	network   Network
	projector Projector
	buzzer    Buzzer
	metrics   Metrics
	clock     clock.Clock
	log       *logger.Logger

	state State
}

func NewOrchestratorService(cfg OrchestratorConfig, eventRepo repository.EventRepo, deps Deps) *OrchestratorService {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New("")
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return &OrchestratorService{
		cfg:       cfg,
		eventRepo: eventRepo,
		prober:    deps.Prober,
		network:   deps.Network,
		projector: deps.Projector,
		buzzer:    deps.Buzzer,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		log:       deps.Log,
		state:     StateIdle,
	}
}

func (o *OrchestratorService) State() State { return o.state }

// Run pulls events until src fails. A failure after ctx is done is the
// normal shutdown path and returns nil.
func (o *OrchestratorService) Run(ctx context.Context, src EventSource) error {
	o.log.Infow("waiting for trigger key", "trigger_code", o.cfg.TriggerCode, "remote_host", o.cfg.RemoteHost)
	for {
		if ctx.Err() != nil {
			return nil
		}
		ev, err := src.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input event: %w", err)
		}
		o.Handle(ctx, ev)
	}
}

// Handle runs the whole sequence for ev, if any, and always leaves the loop
// in Idle. Once triggered, the sequence runs to completion even if ctx is
// cancelled; cancellation only stops Run between sequences.
func (o *OrchestratorService) Handle(ctx context.Context, ev models.KeyEvent) (outcome Outcome) {
	if !ev.IsKeyDown() {
		o.log.Debugw("input event ignored", "type", ev.Type, "code", ev.Code, "value", ev.Value)
		return OutcomeIgnored
	}

	o.metrics.KeyEvent()
	o.log.Infow("key pressed", "code", ev.Code)
	if ev.Code != o.cfg.TriggerCode {
		o.record(ctx, "", models.EventKey, fmt.Sprintf("key %d ignored", ev.Code), map[string]any{"code": ev.Code})
		return OutcomeIgnored
	}

	ctx = context.WithoutCancel(ctx)
	r := run{id: uuid.NewString(), started: o.clock.Now()}
	defer func() {
		if p := recover(); p != nil {
			o.log.Errorw("sequence aborted by panic", "run_id", r.id, "state", o.state.String(), "panic", p)
			o.record(ctx, r.id, models.EventError, "sequence aborted", map[string]any{"panic": fmt.Sprint(p)})
			outcome = OutcomeIgnored
		}
		o.transition(r.id, StateIdle)
	}()

	o.metrics.Trigger()
	o.transition(r.id, StateTriggered)
	o.record(ctx, r.id, models.EventTrigger, "trigger key pressed", map[string]any{"code": ev.Code})

	if err := guard(func() error { return o.buzzer.Pulse(ctx, o.cfg.BuzzerPulse) }); err != nil {
		o.fail(ctx, r.id, actuatorBuzzer, err)
	} else {
		o.record(ctx, r.id, models.EventBuzzer, "buzzer pulsed", map[string]any{"duration": o.cfg.BuzzerPulse.String()})
	}

	o.transition(r.id, StateProbing)
	var alive bool
	if err := guard(func() error { alive = o.prober.Alive(ctx, o.cfg.RemoteHost); return nil }); err != nil {
		o.fail(ctx, r.id, actuatorProbe, err)
	}
	o.metrics.Probe(alive)
	o.record(ctx, r.id, models.EventProbe, probeDescription(o.cfg.RemoteHost, alive), map[string]any{"alive": alive})

	kind := metrics.KindWake
	outcome = OutcomeWake
	if alive {
		kind = metrics.KindShutdown
		outcome = OutcomeShutdown
		o.shutdownSequence(ctx, r)
	} else {
		o.wakeSequence(ctx, r)
	}

	o.metrics.Sequence(kind, o.clock.Now().Sub(r.started))
	if err := o.metrics.Flush(); err != nil {
		o.log.Warnw("metrics flush failed", "err", err)
	}
	return outcome
}

// guard runs one actuator call, turning a panic into an error so the
// remaining steps of the sequence still run.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

type run struct {
	id      string
	started time.Time
}

func (o *OrchestratorService) transition(runID string, to State) {
	from := o.state
	o.state = to
	o.log.Infow("state transition", "run_id", runID, "from", from.String(), "to", to.String())
}

// fail contains an actuator error: it is logged, counted and journaled.
func (o *OrchestratorService) fail(ctx context.Context, runID, actuator string, err error) {
	o.metrics.ActuatorFailure(actuator)
	o.log.Errorw("actuator failed", "run_id", runID, "actuator", actuator, "state", o.state.String(), "err", err)
	o.record(ctx, runID, models.EventError, actuator+" failed", map[string]any{"actuator": actuator, "err": err.Error()})
}

// record appends to the journal. Journal errors never reach the loop.
func (o *OrchestratorService) record(ctx context.Context, runID, typ, desc string, meta map[string]any) {
	err := o.eventRepo.Append(context.WithoutCancel(ctx), models.BridgeEvent{
		EventID:     uuid.NewString(),
		RunID:       runID,
		OccurredAt:  o.clock.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		o.log.Warnw("journal append failed", "run_id", runID, "type", typ, "err", err)
	}
}

func probeDescription(host string, alive bool) string {
	if alive {
		return host + " is running"
	}
	return host + " is not running"
}
