package probe

import (
	"context"
	"fmt"
	"time"

	"irwake/internal/config"

	probing "github.com/prometheus-community/pro-bing"
)

// ICMPPinger sends echo requests itself. Unprivileged mode uses UDP ICMP
// sockets (net.ipv4.ping_group_range must include the process group).
type ICMPPinger struct {
	count      int
	interval   time.Duration
	timeout    time.Duration
	privileged bool
}

func NewICMPPinger(cfg config.Probe) *ICMPPinger {
	return &ICMPPinger{
		count:      cfg.Count,
		interval:   cfg.Interval,
		timeout:    cfg.Timeout,
		privileged: cfg.Privileged,
	}
}

func (p *ICMPPinger) Ping(ctx context.Context, host string) (int, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return 0, fmt.Errorf("resolve %q: %w", host, err)
	}
	pinger.Count = p.count
	pinger.Interval = p.interval
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, fmt.Errorf("ping %q: %w", host, err)
	}
	return pinger.Statistics().PacketsRecv, nil
}
