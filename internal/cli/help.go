package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/engine"
	"github.com/jonbarril/vgl/internal/help"
	"github.com/jonbarril/vgl/internal/verbosity"
)

// overview is shown by vgl help -vv.
var overview = []help.Section{
	{
		Title: "Reading status",
		Body: []string{
			"Each changed path is one line with a two-letter code. The first letter",
			"compares the index with HEAD (what the next commit would record), the",
			"second compares the working tree with the index. A renamed or copied",
			"file is one line, old -> new. ?? is untracked, !! ignored, UU an",
			"unresolved merge conflict. A file removed from the index but kept on",
			"disk shows D and is listed again as untracked or ignored.",
		},
	},
	{
		Title: "Detail levels",
		Body: []string{
			"Plain status lists changed paths. -v adds the repository root, the",
			"branch with its HEAD commit and upstream, counts, one section per kind",
			"of change including ignored files, and the local branches. -vv adds the",
			"remote URL, rename similarity, mode changes, content fingerprints and",
			"the ignore rule behind every ignored path. Every level contains the one",
			"before it.",
		},
	},
	{
		Title: "Renames",
		Body: []string{
			"A deleted file and an added file whose contents are similar enough are",
			"shown as one rename. The threshold is rename_threshold in the settings",
			"(default 0.5) or --rename-threshold. --fast skips detection and is only",
			"accepted without -v.",
		},
	},
	{
		Title: "Scripts",
		Body: []string{
			"--format json and --format yaml print the same document at any level.",
			"The exit code is 0 when clean, 1 when anything is staged, changed or",
			"untracked, and 2 on errors. -y never starts a pager.",
		},
	},
}

// helpFunc replaces cobra's help output for --help and bare vgl.
func (a *app) helpFunc(cmd *cobra.Command, _ []string) {
	if err := a.renderHelp(cmd, cmd.OutOrStdout()); err != nil {
		a.helpErr = err
	}
}

// renderHelp renders help for cmd at the tier given by -v.
func (a *app) renderHelp(cmd *cobra.Command, w io.Writer) error {
	tier, err := verbosity.FromCount(a.verbose)
	if err != nil {
		return &engine.ArgumentError{Flag: "-v", Reason: err.Error()}
	}

	doc := help.FromCobra(cmd.Root())
	doc.Patterns = help.GlobPatterns
	doc.Overview = overview
	opts := help.Options{Color: useColor(config.ColorAuto, w)}

	var out string
	if cmd == cmd.Root() {
		out, err = help.Render(doc, tier, opts)
	} else {
		c := help.CommandFromCobra(cmd)
		doc.Commands = []help.Command{c}
		out, err = help.RenderCommand(doc, c.Name, tier, opts)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
