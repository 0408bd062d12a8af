// Package discovery resolves the trigger input device and the serial ports
// by keyword, falling back to a static path when nothing matches.
package discovery

import (
	"fmt"
	"strings"

	"irwake/internal/logger"

	"github.com/holoplot/go-evdev"
	"go.bug.st/serial/enumerator"
)

// Candidate is one device seen during enumeration. Label is what the
// keyword is matched against.
type Candidate struct {
	Path  string
	Label string
}

// ListFunc enumerates candidate devices.
type ListFunc func() ([]Candidate, error)

// Resolver picks the first candidate whose label contains a keyword.
type Resolver struct {
	kind string
	list ListFunc
	log  *logger.Logger
}

func NewResolver(kind string, list ListFunc, log *logger.Logger) *Resolver {
	return &Resolver{kind: kind, list: list, log: log}
}

// NewInputResolver enumerates evdev devices by name.
func NewInputResolver(log *logger.Logger) *Resolver {
	return NewResolver("input", ListInputDevices, log)
}

// NewSerialResolver enumerates serial ports with their USB details.
func NewSerialResolver(log *logger.Logger) *Resolver {
	return NewResolver("serial", ListSerialPorts, log)
}

// Resolve returns the matching path, or fallback when enumeration fails or
// nothing matches. Matching is case-insensitive.
func (r *Resolver) Resolve(keyword, fallback string) string {
	candidates, err := r.list()
	if err != nil {
		r.log.Warnw("device enumeration failed; using fallback",
			"kind", r.kind, "keyword", keyword, "fallback", fallback, "err", err)
		return fallback
	}

	want := strings.ToLower(keyword)
	if want != "" {
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Label), want) {
				r.log.Infow("device found", "kind", r.kind, "keyword", keyword, "path", c.Path, "label", c.Label)
				return c.Path
			}
		}
	}

	r.log.Warnw("no device matched keyword; using fallback",
		"kind", r.kind, "keyword", keyword, "fallback", fallback, "candidates", len(candidates))
	for _, c := range candidates {
		r.log.Infow("device candidate", "kind", r.kind, "path", c.Path, "label", c.Label)
	}
	return fallback
}

// ListInputDevices lists /dev/input/event* with their reported names.
func ListInputDevices() ([]Candidate, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	out := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		out = append(out, Candidate{Path: p.Path, Label: p.Name})
	}
	return out, nil
}

// ListSerialPorts lists serial ports labelled as
// "<port> | <product> | VID:<vid> PID:<pid> SN:<sn>".
func ListSerialPorts() ([]Candidate, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	out := make([]Candidate, 0, len(ports))
	for _, p := range ports {
		out = append(out, Candidate{Path: p.Name, Label: serialLabel(p)})
	}
	return out, nil
}

func serialLabel(p *enumerator.PortDetails) string {
	return fmt.Sprintf("%s | %s | VID:%s PID:%s SN:%s",
		p.Name, orDash(p.Product), orDash(strings.ToUpper(p.VID)), orDash(strings.ToUpper(p.PID)), orDash(p.SerialNumber))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
