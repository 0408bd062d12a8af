package service

import (
	"context"
	"encoding/hex"

	"irwake/internal/models"
)

// shutdownSequence: shutdown datagram, settle delay, projector POWER_OFF.
// The projector is powered off only after the host had time to go dark.
func (o *OrchestratorService) shutdownSequence(ctx context.Context, r run) {
	o.transition(r.id, StateShuttingDown)

	if err := guard(func() error { return o.network.SendShutdown(ctx) }); err != nil {
		o.fail(ctx, r.id, actuatorShutdown, err)
	} else {
		o.record(ctx, r.id, models.EventShutdown, "shutdown datagram sent", nil)
	}

	o.log.Infow("waiting for remote host to power off", "run_id", r.id, "settle", o.cfg.ShutdownSettle)
	if err := o.clock.Sleep(ctx, o.cfg.ShutdownSettle); err != nil {
		o.fail(ctx, r.id, actuatorSettle, err)
	}

	o.sendSerial(ctx, r, o.cfg.PowerOff)
}

// wakeSequence: magic packet, then projector POWER_ON right away.
func (o *OrchestratorService) wakeSequence(ctx context.Context, r run) {
	o.transition(r.id, StateWaking)

	if err := guard(func() error { return o.network.SendWake(ctx) }); err != nil {
		o.fail(ctx, r.id, actuatorWake, err)
	} else {
		o.record(ctx, r.id, models.EventWake, "magic packet sent", nil)
	}

	o.sendSerial(ctx, r, o.cfg.PowerOn)
}

func (o *OrchestratorService) sendSerial(ctx context.Context, r run, cmd models.SerialCommand) {
	var resp []byte
	err := guard(func() (err error) {
		resp, err = o.projector.Send(ctx, cmd)
		return err
	})
	if err != nil {
		o.fail(ctx, r.id, actuatorProjector, err)
		return
	}
	o.record(ctx, r.id, models.EventSerial, cmd.Name()+" sent", map[string]any{
		"command":  cmd.Name(),
		"sent":     cmd.Hex(),
		"response": hex.EncodeToString(resp),
	})
}
