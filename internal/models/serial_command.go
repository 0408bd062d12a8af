package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var errEmptyCommand = errors.New("serial command must not be empty")

// SerialCommand is an immutable byte frame sent to the projector.
type SerialCommand struct {
	name  string
	bytes []byte
}

// NewSerialCommand copies b so the command cannot be mutated afterwards.
func NewSerialCommand(name string, b []byte) SerialCommand {
	return SerialCommand{name: name, bytes: append([]byte(nil), b...)}
}

// ParseSerialCommand decodes a hex string such as "7E 30 30 30 30 20 31 0D".
// Whitespace between bytes is ignored.
func ParseSerialCommand(name, s string) (SerialCommand, error) {
	clean := strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return SerialCommand{}, fmt.Errorf("decode %s command %q: %w", name, s, err)
	}
	if len(b) == 0 {
		return SerialCommand{}, fmt.Errorf("%s: %w", name, errEmptyCommand)
	}
	return NewSerialCommand(name, b), nil
}

func (c SerialCommand) Name() string { return c.name }

// Bytes returns a copy of the frame.
func (c SerialCommand) Bytes() []byte { return append([]byte(nil), c.bytes...) }

func (c SerialCommand) Hex() string { return hex.EncodeToString(c.bytes) }

func (c SerialCommand) String() string { return c.name + "(" + c.Hex() + ")" }
