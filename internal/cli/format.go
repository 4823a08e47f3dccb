package cli

import (
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/pager"
)

// useColor resolves a colour mode for output written to w. auto colours
// terminals unless NO_COLOR is set.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && pager.IsTerminal(w)
	}
}

// styled returns c forced on or off for w.
func styled(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if useColor(config.ColorAuto, w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// formatError formats an error for display on w.
func formatError(err error, w io.Writer) string {
	return styled(w, color.FgRed, color.Bold).Sprintf("Error: %v", err)
}

// formatWarning formats a warning for display on w.
func formatWarning(msg string, w io.Writer) string {
	return styled(w, color.FgYellow, color.Bold).Sprintf("Warning: %s", msg)
}
