package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestNew_AppendsTimestampedLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wake_on_ir.log")
	if err := os.WriteFile(path, []byte("previous line\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	l := New(Options{Level: InfoLevel, File: path})
	l.Infow("key_event", "code", 99)
	l.Debugw("suppressed")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "previous line" {
		t.Fatalf("existing content not preserved: %q", lines[0])
	}
	if !strings.Contains(lines[1], "key_event") || !strings.Contains(lines[1], "INFO") {
		t.Fatalf("unexpected entry: %q", lines[1])
	}
	// ISO8601 timestamps start with the year.
	if !strings.HasPrefix(lines[1], "20") {
		t.Fatalf("entry is not timestamped: %q", lines[1])
	}
}

func TestNew_UnwritableFileFallsBackToConsole(t *testing.T) {
	l := New(Options{Level: InfoLevel, File: filepath.Join(t.TempDir(), "missing", "x.log")})
	l.Infow("still works")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
