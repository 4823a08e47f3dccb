// Package verbosity defines the closed set of output tiers and formats shared
// by the status renderer and the help renderer.
//
// A tier only controls how much of a value is projected; it never changes what
// is computed. Both `vgl status -v` and `vgl help -v` resolve through Parse so
// the flags mean the same thing everywhere.
package verbosity

import (
	"fmt"
	"strings"
)

// Tier is an output detail level.
type Tier int

const (
	// Terse is the default tier.
	Terse Tier = iota
	// Verbose is selected with -v.
	Verbose
	// VeryVerbose is selected with -vv.
	VeryVerbose
)

// Tiers lists every tier from least to most detailed.
var Tiers = []Tier{Terse, Verbose, VeryVerbose}

// String returns the canonical tier name.
func (t Tier) String() string {
	switch t {
	case Terse:
		return "terse"
	case Verbose:
		return "verbose"
	case VeryVerbose:
		return "very-verbose"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= Terse && t <= VeryVerbose
}

// AtLeast reports whether t is at least as detailed as other.
func (t Tier) AtLeast(other Tier) bool {
	return t >= other
}

// FromCount maps the number of -v occurrences to a tier.
// -v -vv (three occurrences) and beyond is rejected.
func FromCount(count int) (Tier, error) {
	switch {
	case count < 0:
		return Terse, fmt.Errorf("invalid verbosity count %d", count)
	case count == 0:
		return Terse, nil
	case count == 1:
		return Verbose, nil
	case count == 2:
		return VeryVerbose, nil
	default:
		return Terse, fmt.Errorf("conflicting verbosity flags: use either -v or -vv, not both")
	}
}

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "terse":
		return Terse, nil
	case "verbose", "v":
		return Verbose, nil
	case "very-verbose", "veryverbose", "vv":
		return VeryVerbose, nil
	default:
		return Terse, fmt.Errorf("unknown verbosity tier %q", s)
	}
}

// Format is an output encoding.
type Format int

const (
	// Text is the human-readable rendering.
	Text Format = iota
	// JSON is the structured machine-readable rendering.
	JSON
	// YAML is the same structured document encoded as YAML.
	YAML
)

// String returns the canonical format name.
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Structured reports whether f is a machine-readable format.
func (f Format) Structured() bool {
	return f == JSON || f == YAML
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Text, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}
