// Package netctl sends the fire-and-forget network signals to the remote
// host: the shutdown datagram and the wake-on-LAN magic packet.
package netctl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"irwake/internal/config"
	"irwake/internal/logger"

	"github.com/mdlayher/wol"
)

var errEmptyPayload = errors.New("shutdown payload must not be empty")

// Dialer opens outbound datagram sockets.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Signaler sends the shutdown datagram and the magic packet.
type Signaler struct {
	shutdownAddr string
	marker       []byte
	wakeAddr     string
	mac          net.HardwareAddr

	dialer Dialer
	log    *logger.Logger
}

// NewSignaler derives both destinations from cfg. The MAC has already been
// validated by config.Load.
func NewSignaler(cfg config.Remote, dialer Dialer, log *logger.Logger) (*Signaler, error) {
	mac, err := net.ParseMAC(cfg.MAC)
	if err != nil {
		return nil, fmt.Errorf("parse target mac: %w", err)
	}
	if cfg.ShutdownMarker == "" {
		return nil, errEmptyPayload
	}
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	return &Signaler{
		shutdownAddr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.ShutdownPort)),
		marker:       []byte(cfg.ShutdownMarker),
		wakeAddr:     net.JoinHostPort(cfg.Broadcast, strconv.Itoa(cfg.WakePort)),
		mac:          mac,
		dialer:       dialer,
		log:          log,
	}, nil
}

// SendShutdown sends one datagram carrying the shutdown marker.
func (s *Signaler) SendShutdown(ctx context.Context) error {
	if err := s.send(ctx, s.shutdownAddr, s.marker); err != nil {
		return fmt.Errorf("send shutdown datagram: %w", err)
	}
	s.log.Infow("shutdown datagram sent", "addr", s.shutdownAddr)
	return nil
}

// SendWake broadcasts the magic packet for the configured MAC.
func (s *Signaler) SendWake(ctx context.Context) error {
	pkt, err := MagicPacket(s.mac)
	if err != nil {
		return err
	}
	if err := s.send(ctx, s.wakeAddr, pkt); err != nil {
		return fmt.Errorf("send magic packet: %w", err)
	}
	s.log.Infow("magic packet sent", "addr", s.wakeAddr, "mac", s.mac.String())
	return nil
}

// MagicPacket returns 6 bytes of 0xFF followed by 16 copies of mac.
func MagicPacket(mac net.HardwareAddr) ([]byte, error) {
	p := &wol.MagicPacket{Target: mac}
	b, err := p.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode magic packet for %s: %w", mac, err)
	}
	return b, nil
}

// send opens an ephemeral socket, writes payload once and closes it.
func (s *Signaler) send(ctx context.Context, addr string, payload []byte) error {
	conn, err := s.dialer.DialContext(ctx, "udp4", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		return err
	}
	return nil
}
