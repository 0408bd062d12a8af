package discovery

import (
	"errors"
	"testing"

	"irwake/internal/logger"

	"go.bug.st/serial/enumerator"
)

func staticList(c ...Candidate) ListFunc {
	return func() ([]Candidate, error) { return c, nil }
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	devices := staticList(
		Candidate{Path: "/dev/input/event3", Label: "AT Translated Set 2 keyboard"},
		Candidate{Path: "/dev/input/event7", Label: "flirc.tv flirc"},
		Candidate{Path: "/dev/input/event8", Label: "Flirc Consumer Control"},
	)

	cases := []struct {
		name     string
		list     ListFunc
		keyword  string
		fallback string
		want     string
	}{
		{name: "first case-insensitive match", list: devices, keyword: "FLIRC", fallback: "/dev/input/event5", want: "/dev/input/event7"},
		{name: "no match falls back", list: devices, keyword: "lirc-xyz", fallback: "/dev/input/event5", want: "/dev/input/event5"},
		{name: "empty keyword falls back", list: devices, keyword: "", fallback: "/dev/input/event5", want: "/dev/input/event5"},
		{
			name:     "enumeration error falls back",
			list:     func() ([]Candidate, error) { return nil, errors.New("permission denied") },
			keyword:  "flirc",
			fallback: "/dev/input/event5",
			want:     "/dev/input/event5",
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver("input", c.list, logger.NewNop())
			if got := r.Resolve(c.keyword, c.fallback); got != c.want {
				t.Fatalf("Resolve(%q) = %q; want %q", c.keyword, got, c.want)
			}
		})
	}
}

func TestSerialLabel_MatchesVendorID(t *testing.T) {
	t.Parallel()

	label := serialLabel(&enumerator.PortDetails{
		Name:    "/dev/ttyUSB0",
		IsUSB:   true,
		VID:     "067b",
		PID:     "2303",
		Product: "USB-Serial Controller",
	})
	want := "/dev/ttyUSB0 | USB-Serial Controller | VID:067B PID:2303 SN:-"
	if label != want {
		t.Fatalf("label = %q; want %q", label, want)
	}

	r := NewResolver("serial", staticList(Candidate{Path: "/dev/ttyUSB0", Label: label}), logger.NewNop())
	if got := r.Resolve("067B", "/dev/ttyUSB9"); got != "/dev/ttyUSB0" {
		t.Fatalf("Resolve = %q", got)
	}
}
