// Package pager shows long output through the user's pager when stdout is a
// terminal.
package pager

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Command determines the pager command: the configured one, then $PAGER,
// then less, more and finally cat.
func Command(configured string) string {
	if pager := strings.TrimSpace(configured); pager != "" {
		return pager
	}
	if pager := strings.TrimSpace(os.Getenv("PAGER")); pager != "" {
		return pager
	}
	if _, err := lookPath("less"); err == nil {
		return "less -FRX"
	}
	if _, err := lookPath("more"); err == nil {
		return "more"
	}
	return "cat"
}

// Env returns extra environment variables for pager. less gets -FRX through
// $LESS unless the user set it, so colours pass through and short output
// does not wait for a keypress.
func Env(pager string) []string {
	if isLess(pager) && os.Getenv("LESS") == "" {
		return []string{"LESS=FRX", "LESSHISTFILE=-"}
	}
	return nil
}

func isLess(pager string) bool {
	for _, field := range strings.Fields(pager) {
		if strings.Contains(field, "=") && !strings.HasPrefix(field, "-") && !strings.Contains(field, "/") {
			continue
		}
		return filepath.Base(field) == "less"
	}
	return false
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Options control Write.
type Options struct {
	// Command is the pager command line. Empty or "cat" writes directly.
	Command string

	// Disabled forces direct output, as with -y.
	Disabled bool

	// Terminal overrides terminal detection of the output when non-nil.
	Terminal *bool
}

// Enabled reports whether output to w would be paged.
func (o Options) Enabled(w io.Writer) bool {
	if o.Disabled {
		return false
	}
	cmd := strings.TrimSpace(o.Command)
	if cmd == "" || cmd == "cat" {
		return false
	}
	if o.Terminal != nil {
		return *o.Terminal
	}
	return IsTerminal(w)
}

// Write writes text to w, through the pager when enabled. A pager that
// cannot be started falls back to writing directly.
func Write(ctx context.Context, w, errW io.Writer, text string, opts Options) error {
	if !opts.Enabled(w) {
		_, err := io.WriteString(w, text)
		return err
	}

	err := run(ctx, opts.Command, text, w, errW)
	if err == nil {
		return nil
	}
	if notRunnable(err) {
		_, werr := io.WriteString(w, text)
		return werr
	}
	// Quitting the pager early is not a failure of the command.
	return nil
}

func run(ctx context.Context, command, text string, w, errW io.Writer) error {
	// #nosec G204 -- the pager command line comes from the user's settings
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = w
	cmd.Stderr = errW
	cmd.Env = append(os.Environ(), Env(command)...)
	return cmd.Run()
}

// notRunnable reports a pager that never ran: sh could not start, or the
// shell could not find or execute the command.
func notRunnable(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return code == 126 || code == 127
	}
	return true
}
