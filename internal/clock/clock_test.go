package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReal_SleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Real().Sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("sleep did not return promptly")
	}
}

func TestReal_SleepWaits(t *testing.T) {
	start := time.Now()
	if err := Real().Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("sleep returned early")
	}
}

func TestFake_RecordsAndAdvances(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	_ = f.Sleep(context.Background(), 500*time.Millisecond)
	_ = f.Sleep(context.Background(), 10*time.Second)

	if len(f.Sleeps) != 2 || f.Sleeps[1] != 10*time.Second {
		t.Fatalf("unexpected sleeps: %v", f.Sleeps)
	}
	if got := f.Now().Sub(start); got != 10500*time.Millisecond {
		t.Fatalf("clock advanced %v", got)
	}
}
