package playground

import (
	"fmt"
	"strings"
)

// Channel selects the Rust toolchain track the playground compiles with.
type Channel int

const (
	Stable Channel = iota
	Beta
	Nightly
)

// Channels lists every known channel in display order.
var Channels = []Channel{Stable, Beta, Nightly}

func (c Channel) String() string {
	switch c {
	case Stable:
		return "stable"
	case Beta:
		return "beta"
	case Nightly:
		return "nightly"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// ParseChannel parses a channel name case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "stable":
		return Stable, nil
	case "beta":
		return Beta, nil
	case "nightly":
		return Nightly, nil
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

func (c Channel) MarshalText() ([]byte, error) {
	switch c {
	case Stable, Beta, Nightly:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("invalid channel %d", int(c))
}

func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CrateType decides whether the playground builds a program or a test-harness library.
type CrateType int

const (
	Library CrateType = iota
	Binary
)

// EntryPoint marks source code as a runnable program.
const EntryPoint = "fn main"

// DetectCrateType classifies code as Binary when it declares a main function.
func DetectCrateType(code string) CrateType {
	if strings.Contains(code, EntryPoint) {
		return Binary
	}
	return Library
}

func (t CrateType) String() string {
	switch t {
	case Library:
		return "lib"
	case Binary:
		return "bin"
	}
	return fmt.Sprintf("CrateType(%d)", int(t))
}

// ParseCrateType accepts "lib"/"library" and "bin"/"binary".
func ParseCrateType(s string) (CrateType, error) {
	switch strings.ToLower(s) {
	case "lib", "library":
		return Library, nil
	case "bin", "binary":
		return Binary, nil
	}
	return 0, fmt.Errorf("unknown crate type %q", s)
}

func (t CrateType) MarshalText() ([]byte, error) {
	switch t {
	case Library, Binary:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("invalid crate type %d", int(t))
}

func (t *CrateType) UnmarshalText(text []byte) error {
	parsed, err := ParseCrateType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
