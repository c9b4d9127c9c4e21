package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/format"
	"github.com/poly1603/ldesign-changelog/internal/version"
)

var versionShowChangelog bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version and build information",
	GroupID: GroupConfiguration,
	RunE:    runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShowChangelog, "changelog", false, "Show this tool's own release history")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	release := version.Version
	if version.IsDevBuild() {
		release += " (development build)"
	}
	fmt.Fprintf(out, "changelog %s\n", release)
	fmt.Fprintf(out, "  commit:   %s\n", version.Commit)
	fmt.Fprintf(out, "  built:    %s\n", version.BuildDate)
	fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
	fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if !versionShowChangelog {
		return nil
	}

	result, err := changelog.LoadEmbedded()
	if err != nil {
		return clierrors.NewRuntimeError(fmt.Sprintf("loading embedded changelog: %v", err))
	}
	fmt.Fprintln(out)
	return format.FormatDocuments(out, result.Documents, format.TerminalOptions{Plain: plainFlag})
}
