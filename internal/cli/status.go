package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonbarril/vgl/internal/engine"
	"github.com/jonbarril/vgl/internal/help"
	"github.com/jonbarril/vgl/internal/pager"
	"github.com/jonbarril/vgl/internal/render"
	"github.com/jonbarril/vgl/internal/verbosity"
)

func (a *app) statusCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status [GLOB...]",
		Short: "Show working tree status",
		Long: `Compare HEAD, the index and the working tree and list every path that
differs, with renames and copies paired up. Path patterns narrow the listing;
counts are recomputed for what is shown.`,
		Example: `  vgl status                  # changed paths, or "clean"
  vgl status -v               # sections and counts
  vgl status -vv src          # fingerprints and ignore rules under src
  vgl status --format yaml    # structured output
  vgl status -C ../other -y   # another repository, no pager`,
		Annotations: map[string]string{help.AnnotationPatterns: "true"},
		RunE:        a.runStatus,
	}

	flags := statusCmd.Flags()
	flags.StringVarP(&a.dir, "dir", "C", "", "run as if vgl was started in `DIR`")
	flags.StringVar(&a.format, "format", "", "output `format`: text, json or yaml (default text)")
	flags.BoolVar(&a.json, "json", false, "shorthand for --format json")
	flags.BoolVarP(&a.yes, "yes", "y", false, "non-interactive: never start a pager")
	flags.BoolVar(&a.fast, "fast", false, "skip rename and copy detection (terse only)")
	flags.Float64Var(&a.threshold, "rename-threshold", 0, "minimum similarity in (0, 1] for renames and copies")
	flags.BoolVar(&a.noRenames, "no-renames", false, "do not detect renames or copies")
	flags.StringVar(&a.color, "color", "", "colour `mode`: auto, always or never")
	return statusCmd
}

func (a *app) runStatus(cmd *cobra.Command, args []string) error {
	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	req := &engine.StatusRequest{
		CWD:       cwd,
		Dir:       a.dir,
		Verbosity: a.verbose,
		Format:    a.format,
		JSON:      a.json,
		Fast:      a.fast,
		NoRenames: a.noRenames,
		Color:     a.color,
		Patterns:  args,
	}
	if cmd.Flags().Changed("rename-threshold") {
		req.RenameThreshold = &a.threshold
	}

	ctx := cmd.Context()
	result, err := eng.Status(ctx, req)
	if err != nil {
		return err
	}
	a.settingsDebugLog = result.Settings.DebugLog

	w := cmd.OutOrStdout()
	out, err := render.Render(result.Report, result.Tier, result.Format, render.Options{
		Color:            result.Format == verbosity.Text && useColor(result.Settings.Color, w),
		FingerprintWidth: result.Settings.FingerprintWidth,
	})
	if err != nil {
		return err
	}

	pg := pager.Options{Disabled: a.yes}
	if result.Tier == verbosity.VeryVerbose && result.Format == verbosity.Text {
		pg.Command = pager.Command(result.Settings.Pager)
	}
	if err := pager.Write(ctx, w, cmd.ErrOrStderr(), out.Text, pg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	a.exitCode = out.ExitCode
	return nil
}
