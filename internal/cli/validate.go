package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/format"
)

var validateVersion string

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check changelogs for structural problems",
	Long: `Validate imports the given changelogs and checks the combined result
for structural problems.

Errors fail validation: an input that yields no documents at all, or
the same version released in more than one document. Warnings are
advisory and never fail it: placeholder versions or dates, versions
without entries, empty sections.

With --version the named release must exist somewhere in the inputs;
a missing one lists the versions that were found.`,
	Example: `  # Validate one changelog
  changelog validate CHANGELOG.md

  # Validate all package changelogs together
  changelog validate packages/*/CHANGELOG.md

  # Require a release to be present
  changelog validate CHANGELOG.md --version 1.4.0`,
	Args:    wrapArgs(cobra.MinimumNArgs(1)),
	GroupID: GroupInspection,
	RunE:    runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateVersion, "version", "", "Require this version to exist in the inputs")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig(cmd)
	if err != nil {
		return err
	}

	var docs []*changelog.Document
	for _, path := range args {
		result, err := changelog.ImportFile(path, changelog.FormatAuto)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return clierrors.ChangelogNotFound(path)
			}
			return clierrors.ChangelogParseFailed(path, err)
		}
		printWarnings(cmd, result.Warnings)
		docs = append(docs, result.Documents...)
	}

	vr := changelog.ValidateDocuments(docs...)
	topts := format.TerminalOptions{Plain: cfg.Plain}
	if err := format.FormatValidation(cmd.OutOrStdout(), vr, topts); err != nil {
		return err
	}

	if validateVersion != "" {
		batch := &changelog.ImportResult{Documents: docs, Success: len(docs) > 0}
		if _, err := batch.GetVersion(validateVersion); err != nil {
			var nf *changelog.VersionNotFoundError
			if errors.As(err, &nf) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Version %s not found. Available versions:\n", validateVersion)
				for _, v := range batch.ListVersions() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
				}
				return NewExitError(ExitFailure)
			}
			return err
		}
	}

	if !vr.Valid {
		return NewExitError(ExitFailure)
	}
	return nil
}
