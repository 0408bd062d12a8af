// Package serialctl drives the serial-attached projector and the buzzer.
package serialctl

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// DefaultBaud matches the default of common serial tooling.
const DefaultBaud = 9600

// Port is the subset of serial.Port used by the actuators.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	SetDTR(dtr bool) error
}

// Opener opens a serial port by name.
type Opener func(name string, baud int) (Port, error)

// OpenPort opens name at baud, 8N1.
func OpenPort(name string, baud int) (Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", name, err)
	}
	return p, nil
}
