package netctl

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"irwake/internal/config"
	"irwake/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicPacket_Layout(t *testing.T) {
	t.Parallel()

	mac, err := net.ParseMAC("48:21:0B:71:2C:32")
	require.NoError(t, err)

	pkt, err := MagicPacket(mac)
	require.NoError(t, err)
	require.Len(t, pkt, 102)

	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 6), pkt[:6])
	want := []byte{0x48, 0x21, 0x0B, 0x71, 0x2C, 0x32}
	for i := 0; i < 16; i++ {
		off := 6 + i*6
		assert.Equal(t, want, pkt[off:off+6], "repetition %d", i)
	}
}

// listenUDP returns a loopback socket and its port.
func listenUDP(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func readDatagram(t *testing.T, conn *net.UDPConn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return buf[:n]
}

func remoteConfig(shutdownPort, wakePort int) config.Remote {
	return config.Remote{
		Host:           "127.0.0.1",
		MAC:            "48:21:0B:71:2C:32",
		Broadcast:      "127.0.0.1",
		WakePort:       wakePort,
		ShutdownPort:   shutdownPort,
		ShutdownMarker: "shutdowntangguo",
	}
}

func TestSignaler_SendShutdown(t *testing.T) {
	conn, port := listenUDP(t)
	s, err := NewSignaler(remoteConfig(port, 9), nil, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.SendShutdown(context.Background()))
	assert.Equal(t, []byte("shutdowntangguo"), readDatagram(t, conn))
}

func TestSignaler_SendWake(t *testing.T) {
	conn, port := listenUDP(t)
	s, err := NewSignaler(remoteConfig(4000, port), nil, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.SendWake(context.Background()))
	got := readDatagram(t, conn)
	require.Len(t, got, 102)
	assert.Equal(t, []byte{0x48, 0x21, 0x0B, 0x71, 0x2C, 0x32}, got[96:])
}

type failingDialer struct{ addrs []string }

func (d *failingDialer) DialContext(_ context.Context, _, address string) (net.Conn, error) {
	d.addrs = append(d.addrs, address)
	return nil, errors.New("network unreachable")
}

func TestSignaler_DialFailureIsReturned(t *testing.T) {
	t.Parallel()

	d := &failingDialer{}
	s, err := NewSignaler(remoteConfig(4000, 9), d, logger.NewNop())
	require.NoError(t, err)

	assert.ErrorContains(t, s.SendShutdown(context.Background()), "network unreachable")
	assert.ErrorContains(t, s.SendWake(context.Background()), "network unreachable")
	assert.Equal(t, []string{"127.0.0.1:" + strconv.Itoa(4000), "127.0.0.1:9"}, d.addrs)
}

func TestNewSignaler_RejectsBadInput(t *testing.T) {
	t.Parallel()

	cfg := remoteConfig(4000, 9)
	cfg.MAC = "not-a-mac"
	_, err := NewSignaler(cfg, nil, logger.NewNop())
	assert.Error(t, err)

	cfg = remoteConfig(4000, 9)
	cfg.ShutdownMarker = ""
	_, err = NewSignaler(cfg, nil, logger.NewNop())
	assert.ErrorIs(t, err, errEmptyPayload)
}
