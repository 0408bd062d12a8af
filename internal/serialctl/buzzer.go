package serialctl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"irwake/internal/clock"
	"irwake/internal/logger"
)

// Buzzer pulses the DTR line of a serial device. No data is transferred.
type Buzzer struct {
	port  string
	open  Opener
	clock clock.Clock
	log   *logger.Logger
}

func NewBuzzer(port string, open Opener, clk clock.Clock, log *logger.Logger) *Buzzer {
	return &Buzzer{port: port, open: open, clock: clk, log: log}
}

func (b *Buzzer) Port() string { return b.port }

// Pulse asserts DTR, holds it for d and deasserts it. DTR is dropped and the
// port closed even when the hold is interrupted.
func (b *Buzzer) Pulse(ctx context.Context, d time.Duration) (err error) {
	port, err := b.open(b.port, DefaultBaud)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := port.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", b.port, cerr)
		}
	}()

	if err := port.SetDTR(true); err != nil {
		return fmt.Errorf("assert DTR on %q: %w", b.port, err)
	}
	sleepErr := b.clock.Sleep(ctx, d)
	if err := port.SetDTR(false); err != nil {
		return errors.Join(sleepErr, fmt.Errorf("deassert DTR on %q: %w", b.port, err))
	}
	if sleepErr != nil {
		return sleepErr
	}
	b.log.Infow("buzzer pulsed", "port", b.port, "duration", d)
	return nil
}
