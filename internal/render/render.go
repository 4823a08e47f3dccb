// Package render turns a status report into text or structured output.
//
// Rendering is a pure function of the report, the tier, the format and the
// options: no clock, locale or terminal state is consulted, so identical
// inputs always produce identical bytes.
package render

import (
	"fmt"

	"github.com/jonbarril/vgl/internal/status"
	"github.com/jonbarril/vgl/internal/verbosity"
)

// Process exit codes.
const (
	ExitClean = 0
	ExitDirty = 1
	ExitError = 2
)

// DefaultFingerprintWidth is the number of hex digits shown per fingerprint.
const DefaultFingerprintWidth = 7

// Options are explicit rendering inputs.
type Options struct {
	// Color enables ANSI colours in text output.
	Color bool

	// FingerprintWidth truncates fingerprints and the HEAD commit id.
	// Zero means DefaultFingerprintWidth.
	FingerprintWidth int
}

// Output is a rendered report and the exit code it implies.
type Output struct {
	Text     string
	ExitCode int
}

// Render renders report. Structured formats ignore the tier and colour. The
// report is re-validated first; a violated invariant is a *status.RenderError.
func Render(report *status.StatusReport, tier verbosity.Tier, format verbosity.Format, opts Options) (Output, error) {
	if report == nil {
		return Output{}, &status.RenderError{Reason: "no report"}
	}
	if err := report.Validate(); err != nil {
		return Output{}, err
	}
	if opts.FingerprintWidth <= 0 {
		opts.FingerprintWidth = DefaultFingerprintWidth
	}

	var (
		text string
		err  error
	)
	switch format {
	case verbosity.Text:
		text, err = renderText(report, tier, opts)
	case verbosity.JSON:
		text, err = renderJSON(report)
	case verbosity.YAML:
		text, err = renderYAML(report)
	default:
		err = &status.RenderError{Reason: fmt.Sprintf("unknown format %s", format)}
	}
	if err != nil {
		return Output{}, err
	}

	return Output{Text: text, ExitCode: ExitCode(report)}, nil
}

// ExitCode returns ExitClean for a clean report and ExitDirty otherwise.
func ExitCode(report *status.StatusReport) int {
	if report.Clean() {
		return ExitClean
	}
	return ExitDirty
}
