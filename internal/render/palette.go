package render

import (
	"github.com/fatih/color"

	"github.com/jonbarril/vgl/internal/status"
)

// palette holds the colours of one render call. Each colour is forced on or
// off so output never depends on the global TTY detection of fatih/color.
type palette struct {
	staged    *color.Color
	unstaged  *color.Color
	untracked *color.Color
	conflict  *color.Color
	header    *color.Color
	dim       *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		staged:    color.New(color.FgGreen),
		unstaged:  color.New(color.FgRed),
		untracked: color.New(color.FgRed),
		conflict:  color.New(color.FgRed, color.Bold),
		header:    color.New(color.FgBlue, color.Bold),
		dim:       color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.staged, p.unstaged, p.untracked, p.conflict, p.header, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// code colours the two status letters: index side green, worktree side red.
func (p palette) code(e status.StatusEntry) string {
	code := e.Code()
	switch {
	case e.Conflicted():
		return p.conflict.Sprint(code)
	case code == "??":
		return p.untracked.Sprint(code)
	case code == "!!":
		return p.dim.Sprint(code)
	}
	return p.staged.Sprint(code[:1]) + p.unstaged.Sprint(code[1:])
}
