package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonbarril/vgl/internal/gitx"
	"github.com/jonbarril/vgl/internal/logging"
	"github.com/jonbarril/vgl/internal/render"
)

var version = "dev"

// SetVersion sets the version reported by vgl version and --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// app holds the flag values and collaborators of one invocation.
type app struct {
	// Global flags
	configPath string
	debugLog   string
	verbose    int

	// status flags
	dir       string
	format    string
	json      bool
	yes       bool
	fast      bool
	threshold float64
	noRenames bool
	color     string

	gitRepo gitx.GitRepo
	sink    *logging.Sink
	log     logging.Logger

	// exitCode is set by commands that complete with a non-zero status.
	exitCode int
	// settingsDebugLog is the debug_log setting of the last status run.
	settingsDebugLog string
	// helpErr is raised by the help function, which cannot return errors.
	helpErr error
}

func newApp() *app {
	sink := logging.NewSink()
	return &app{
		gitRepo: gitx.NewRealGitRepo(),
		sink:    sink,
		log:     logging.NewText(sink, slog.LevelDebug),
	}
}

// rootCommand builds the command tree.
func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "vgl",
		Version: version,
		Short:   "tiered working-copy status",
		Long: `vgl reports the state of a git working copy: what is staged, what changed
since, and what git does not track yet, at three levels of detail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpFunc(a.helpFunc)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "settings `FILE` (default $VGL_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.debugLog, "debug-log", "", "write debug logs to `FILE`")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "more detail: -v verbose, -vv very verbose")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspecting",
		Title: "Inspecting Your Work:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	statusCmd := a.statusCommand()
	statusCmd.GroupID = "inspecting"
	rootCmd.AddCommand(statusCmd)

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the vgl version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Args:    cobra.MaximumNArgs(1),
		Example: `  vgl help            # commands
  vgl help -v status  # status flags and path patterns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := cmd.Root()
			if len(args) > 0 {
				found, _, err := cmd.Root().Find(args)
				if err != nil || found == cmd.Root() {
					return fmt.Errorf("unknown help topic %q", args[0])
				}
				target = found
			}
			return a.renderHelp(target, cmd.OutOrStdout())
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	rootCmd.AddCommand(completionCommand(rootCmd))
	return rootCmd
}

func completionCommand(rootCmd *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for vgl for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "powershell",
		Short:                 "Generate the autocompletion script for powershell",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	return completionCmd
}

// Execute runs vgl with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs vgl with args. Output goes to stdout only on success; a failure
// writes one error line to stderr and returns render.ExitError.
func Run(args []string, stdout, stderr io.Writer) int {
	return newApp().run(args, stdout, stderr)
}

func (a *app) run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	rootCmd := a.rootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		err = a.helpErr
	}
	if err != nil {
		a.log.Error("command failed", "args", args, "err", err)
	}
	a.closeDebugLog(stderr)

	if err != nil {
		_, _ = fmt.Fprintln(stderr, formatError(err, stderr))
		return render.ExitError
	}
	return a.exitCode
}

// closeDebugLog flushes buffered debug logs to --debug-log, else to the
// debug_log setting, else drops them.
func (a *app) closeDebugLog(stderr io.Writer) {
	path := a.debugLog
	if path == "" {
		path = a.settingsDebugLog
	}
	if err := a.sink.SetFile(path); err != nil {
		_, _ = fmt.Fprintln(stderr, formatWarning(err.Error(), stderr))
	}
	_ = a.sink.Close()
}
