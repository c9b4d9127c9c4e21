package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/format"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Detect the markup dialect of changelog files",
	Long: `Detect reports which markup dialect each file is written in without
importing it.

Files with a .json extension are reported as json. Markup files are
classified by their structure: conventional-changelog by its heading
and entry shapes, keep-a-changelog by its bracketed version headings
and category sections, and everything else as plain markdown.`,
	Example: `  # Detect a single changelog
  changelog detect CHANGELOG.md

  # Detect every package changelog at once
  changelog detect packages/*/CHANGELOG.md`,
	Args:    wrapArgs(cobra.MinimumNArgs(1)),
	GroupID: GroupInspection,
	RunE:    runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig(cmd)
	if err != nil {
		return err
	}

	topts := format.TerminalOptions{Plain: cfg.Plain}
	for _, path := range args {
		detected, err := detectFile(path)
		if err != nil {
			return err
		}
		if err := format.FormatDetection(cmd.OutOrStdout(), path, detected, topts); err != nil {
			return err
		}
	}
	return nil
}

// detectFile classifies one file. The .json extension short-circuits
// content detection, matching import behavior.
func detectFile(path string) (changelog.Format, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", clierrors.ChangelogNotFound(path)
			}
			return "", clierrors.NewRuntimeError(fmt.Sprintf("cannot read %s: %v", path, err))
		}
		return changelog.FormatJSON, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", clierrors.ChangelogNotFound(path)
		}
		return "", clierrors.NewRuntimeError(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	return changelog.DetectFormat(string(data)), nil
}
