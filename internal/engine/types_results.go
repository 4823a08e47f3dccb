package engine

import (
	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/status"
	"github.com/jonbarril/vgl/internal/verbosity"
)

// StatusResult represents the result of a status operation.
type StatusResult struct {
	// Report is the status report, narrowed to the request patterns
	Report *status.StatusReport

	// Tier is the requested detail level
	Tier verbosity.Tier

	// Format is the requested output format
	Format verbosity.Format

	// Settings are the effective settings after flags were applied
	Settings config.Settings

	// SettingsFiles lists the settings files that were applied
	SettingsFiles []string

	// Prefix is the invocation directory relative to the repository root
	Prefix string

	// RenamesDetected reports whether rename and copy detection ran
	RenamesDetected bool
}
