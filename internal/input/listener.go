// Package input reads key events from the trigger input device.
package input

import (
	"fmt"
	"sync"

	"irwake/internal/logger"
	"irwake/internal/models"

	"github.com/holoplot/go-evdev"
)

// device is the subset of *evdev.InputDevice the listener needs.
type device interface {
	ReadOne() (*evdev.InputEvent, error)
	Name() (string, error)
	Close() error
}

// Listener owns the input device for the lifetime of the process.
type Listener struct {
	path string
	dev  device
	log  *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open opens the device at path. Failure here is fatal for the bridge.
func Open(path string, log *logger.Logger) (*Listener, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %q: %w", path, err)
	}
	return newListener(path, dev, log), nil
}

func newListener(path string, dev device, log *logger.Logger) *Listener {
	l := &Listener{path: path, dev: dev, log: log}
	name, err := dev.Name()
	if err != nil {
		name = "unknown"
	}
	log.Infow("listening on input device", "path", path, "name", name)
	return l
}

// Next blocks until the device delivers the next event.
func (l *Listener) Next() (models.KeyEvent, error) {
	ev, err := l.dev.ReadOne()
	if err != nil {
		return models.KeyEvent{}, fmt.Errorf("read %q: %w", l.path, err)
	}
	return models.KeyEvent{
		Type:  uint16(ev.Type),
		Code:  uint16(ev.Code),
		Value: ev.Value,
	}, nil
}

// Close releases the device; a blocked Next returns with an error.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.dev.Close()
	})
	return l.closeErr
}
