// Package clock abstracts the sleeps the bridge takes between side effects
// so sequences can be tested without waiting.
package clock

import (
	"context"
	"time"
)

// Clock is the time source injected into actuators and the orchestrator.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fake records requested sleeps and advances its own time instead of blocking.
type Fake struct {
	now    time.Time
	Sleeps []time.Duration
	// OnSleep, when set, is called for every sleep before time advances.
	OnSleep func(d time.Duration)
}

// NewFake returns a Fake starting at start.
func NewFake(start time.Time) *Fake { return &Fake{now: start} }

func (f *Fake) Now() time.Time { return f.now }

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.OnSleep != nil {
		f.OnSleep(d)
	}
	f.Sleeps = append(f.Sleeps, d)
	f.now = f.now.Add(d)
	return nil
}
