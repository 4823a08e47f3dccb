package engine

// StatusRequest represents a request for working copy status.
type StatusRequest struct {
	// CWD is the current working directory
	CWD string

	// Dir runs as if started in this directory (-C). Relative to CWD.
	Dir string

	// Verbosity is the number of -v occurrences (-vv counts two)
	Verbosity int

	// Format is the --format value; empty means text
	Format string

	// JSON is the --json shorthand
	JSON bool

	// Fast skips rename and copy detection (--fast). Only valid at the
	// terse tier.
	Fast bool

	// RenameThreshold overrides the configured threshold when set
	RenameThreshold *float64

	// NoRenames disables rename and copy detection at any tier
	NoRenames bool

	// Color overrides the configured colour mode when non-empty
	Color string

	// Patterns narrow the report to matching paths
	Patterns []string
}
