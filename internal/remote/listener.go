// Package remote runs on the controlled host and powers it off when the
// bridge's shutdown datagram arrives.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"

	"irwake/internal/logger"
)

const readBufferSize = 1024

var errEmptyMarker = errors.New("shutdown marker must not be empty")

// PowerOff switches the local machine off.
type PowerOff interface {
	Run(ctx context.Context) error
}

// CommandPowerOff runs a fixed command line such as "shutdown -h now".
type CommandPowerOff struct {
	Argv []string
}

func (c CommandPowerOff) Run(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return errors.New("empty power-off command")
	}
	out, err := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %q: %w (output: %s)", c.Argv, err, bytes.TrimSpace(out))
	}
	return nil
}

// Listener waits for datagrams containing the marker.
type Listener struct {
	conn     net.PacketConn
	marker   []byte
	powerOff PowerOff
	log      *logger.Logger
}

// Listen binds a UDP socket on addr, e.g. "0.0.0.0:4000".
func Listen(addr, marker string, powerOff PowerOff, log *logger.Logger) (*Listener, error) {
	if marker == "" {
		return nil, errEmptyMarker
	}
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", addr, err)
	}
	return &Listener{conn: conn, marker: []byte(marker), powerOff: powerOff, log: log}, nil
}

func (l *Listener) Addr() net.Addr { return l.conn.LocalAddr() }

// Serve blocks until the socket is closed. Cancelling ctx closes it.
func (l *Listener) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = l.conn.Close() })
	defer stop()

	l.log.Infow("listening for shutdown datagrams", "addr", l.conn.LocalAddr().String())
	buf := make([]byte, readBufferSize)
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read datagram: %w", err)
		}
		l.handle(ctx, buf[:n], from)
	}
}

// handle invokes power-off once for a datagram carrying the marker.
func (l *Listener) handle(ctx context.Context, payload []byte, from net.Addr) {
	if !bytes.Contains(payload, l.marker) {
		l.log.Debugw("datagram ignored", "from", addrString(from), "bytes", len(payload))
		return
	}
	l.log.Infow("shutdown command received, powering off", "from", addrString(from))
	if err := l.powerOff.Run(ctx); err != nil {
		l.log.Errorw("power-off failed", "err", err)
	}
}

// Close releases the socket; Serve returns nil.
func (l *Listener) Close() error { return l.conn.Close() }

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
