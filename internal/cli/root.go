// Package cli implements the changelog command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/config"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/gitutil"
)

// Command group IDs for help output.
const (
	GroupCore          = "core"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

// Persistent flags shared by every command.
var (
	configFlag  string
	plainFlag   bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Normalize and merge changelogs across markup dialects",
	Long: `changelog reads changelog files written in different markup
conventions, normalizes them into one canonical document model and
merges them across packages.

Keep a Changelog, conventional-changelog and plain markdown sources are
detected automatically; the canonical model itself round-trips as JSON.
Import normalizes a single file, merge combines many changelogs into one
document with deduplication and ordering strategies.

Documentation: https://github.com/poly1603/ldesign-changelog`,
	Example: `  # Detect the markup dialect of a changelog
  changelog detect CHANGELOG.md

  # Normalize a changelog and write CHANGELOG.imported.md
  changelog import CHANGELOG.md

  # Merge package changelogs into one document
  changelog merge packages/core/CHANGELOG.md packages/store/CHANGELOG.md -o CHANGELOG.md

  # Re-merge automatically whenever an input changes
  changelog merge packages/*/CHANGELOG.md --watch

  # Check structural health of a changelog
  changelog validate CHANGELOG.md`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if plainFlag {
			color.NoColor = true
		}
		if verboseFlag {
			gitutil.SetDebugLogger(func(msg string, args ...interface{}) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+msg+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to the project config file (default .changelog/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain output without colors and icons")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose debug output")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// wrapArgs converts positional-argument validation failures into argument
// errors so they exit with the same code as other usage mistakes.
func wrapArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}

// Execute runs the root command and reports any error to stderr. The
// process exit code for the error is resolved separately via ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	reportError(rootCmd.ErrOrStderr(), err)
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitConfigError
		}
	}
	return ExitFailure
}

// reportError prints err in the CLI error format. ExitErrors stay
// silent since the command already reported the failure.
func reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprintln(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
}

// loadToolConfig loads the effective configuration for a command run.
// The --plain flag wins over the configured value so output stays
// predictable in scripts.
func loadToolConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configFlag,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, configLoadError(err)
	}
	if plainFlag {
		cfg.Plain = true
	}
	return cfg, nil
}

// configLoadError maps a configuration load failure onto the CLI error
// taxonomy so every command reports config problems the same way.
func configLoadError(err error) error {
	shown := configFlag
	if shown == "" {
		shown = config.ProjectConfigPath()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return clierrors.ConfigFileNotFound(shown)
	}
	var vErr *config.ValidationError
	if errors.As(err, &vErr) && vErr.Line > 0 {
		return clierrors.ConfigSyntaxError(vErr.FilePath, vErr.Line, err)
	}
	return clierrors.ConfigParseFailed(shown, err)
}

// printWarnings writes import and validation warnings to stderr, one
// line each, so they never mix with rendered output on stdout.
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
}
