package serialctl

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"irwake/internal/clock"
	"irwake/internal/config"
	"irwake/internal/logger"
	"irwake/internal/models"
)

// Projector sends fixed command frames and logs whatever comes back.
// The response is never validated.
type Projector struct {
	port        string
	baud        int
	readTimeout time.Duration
	settle      time.Duration
	readSize    int

	open  Opener
	clock clock.Clock
	log   *logger.Logger
}

func NewProjector(port string, cfg config.Projector, open Opener, clk clock.Clock, log *logger.Logger) *Projector {
	readSize := cfg.ReadSize
	if readSize <= 0 {
		readSize = 16
	}
	return &Projector{
		port:        port,
		baud:        cfg.Baud,
		readTimeout: cfg.ReadTimeout,
		settle:      cfg.Settle,
		readSize:    readSize,
		open:        open,
		clock:       clk,
		log:         log,
	}
}

// Port returns the device path this projector talks to.
func (p *Projector) Port() string { return p.port }

// Send writes cmd, waits the settle delay, then reads up to readSize bytes
// within the read timeout. The port is closed on every path.
func (p *Projector) Send(ctx context.Context, cmd models.SerialCommand) (resp []byte, err error) {
	port, err := p.open(p.port, p.baud)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := port.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", p.port, cerr)
		}
	}()

	if err := port.SetReadTimeout(p.readTimeout); err != nil {
		return nil, fmt.Errorf("set read timeout on %q: %w", p.port, err)
	}
	if _, err := port.Write(cmd.Bytes()); err != nil {
		return nil, fmt.Errorf("write %s to %q: %w", cmd.Name(), p.port, err)
	}
	if err := p.clock.Sleep(ctx, p.settle); err != nil {
		return nil, err
	}

	resp, err = p.readResponse(port)
	p.log.Infow("serial command sent",
		"port", p.port, "command", cmd.Name(), "sent", cmd.Hex(), "response", hex.EncodeToString(resp))
	if err != nil {
		return resp, fmt.Errorf("read response from %q: %w", p.port, err)
	}
	return resp, nil
}

// readResponse accumulates bytes until readSize is reached, the port times
// out (a zero-byte read) or the read timeout elapses overall.
func (p *Projector) readResponse(port Port) ([]byte, error) {
	buf := make([]byte, p.readSize)
	n := 0
	deadline := p.clock.Now().Add(p.readTimeout)
	for n < len(buf) {
		m, err := port.Read(buf[n:])
		n += m
		if err != nil {
			return buf[:n], err
		}
		if m == 0 || !p.clock.Now().Before(deadline) {
			break
		}
	}
	return buf[:n], nil
}
