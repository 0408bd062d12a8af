// Package probe decides whether the remote host is up by counting echo
// replies out of a small burst.
package probe

import (
	"context"
	"fmt"

	"irwake/internal/config"
	"irwake/internal/logger"
)

// Pinger sends count echo requests to host and reports how many were answered.
type Pinger interface {
	Ping(ctx context.Context, host string) (received int, err error)
}

// Prober answers true iff at least threshold replies came back.
type Prober struct {
	pinger    Pinger
	threshold int
	log       *logger.Logger
}

func NewProber(pinger Pinger, threshold int, log *logger.Logger) *Prober {
	return &Prober{pinger: pinger, threshold: threshold, log: log}
}

// New selects the pinger named by cfg.Method.
func New(cfg config.Probe, log *logger.Logger) (*Prober, error) {
	var p Pinger
	switch cfg.Method {
	case "icmp", "":
		p = NewICMPPinger(cfg)
	case "exec":
		p = NewExecPinger(cfg)
	default:
		return nil, fmt.Errorf("unknown probe method %q", cfg.Method)
	}
	return NewProber(p, cfg.Threshold, log), nil
}

// Alive never fails: a broken probe mechanism reads as "host is off".
func (p *Prober) Alive(ctx context.Context, host string) bool {
	received, err := p.pinger.Ping(ctx, host)
	if err != nil {
		p.log.Errorw("liveness probe failed", "host", host, "err", err)
		return false
	}
	alive := received >= p.threshold
	p.log.Infow("liveness probe", "host", host, "replies", received, "threshold", p.threshold, "alive", alive)
	return alive
}
