package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	"github.com/poly1603/ldesign-changelog/internal/config"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/format"
	"github.com/poly1603/ldesign-changelog/internal/gitutil"
)

var (
	importFormat           string
	importOutput           string
	importOutputFormat     string
	importPreserveDates    bool
	importPreserveVersions bool
	importDateFormat       string
	importVersionPrefix    string
	importNoWrite          bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Normalize a changelog file into canonical output",
	Long: `Import reads one changelog file, normalizes it into the canonical
document model and writes it back out.

The markup dialect is detected from content unless --format names one.
Every entry receives a stable identity: real commit hashes are kept,
entries without one get a synthesized hash derived from their text, so
later merges can deduplicate across files.

The result is written in the source dialect by default, or as the
canonical JSON model with --output-format json.`,
	Example: `  # Normalize in the detected dialect, write CHANGELOG.imported.md
  changelog import CHANGELOG.md

  # Force the source dialect and print to stdout
  changelog import HISTORY.md --format plain-markdown --no-write

  # Convert a changelog to the canonical JSON model
  changelog import CHANGELOG.md --output-format json -o changelog.json

  # Re-stamp all entries with today's date
  changelog import CHANGELOG.md --preserve-dates=false`,
	Args:    wrapArgs(cobra.ExactArgs(1)),
	GroupID: GroupCore,
	RunE:    runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Source dialect: auto, keep-a-changelog, conventional-changelog, plain-markdown or json")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output file (default CHANGELOG.imported.md or .json)")
	importCmd.Flags().StringVar(&importOutputFormat, "output-format", "", "Output format: markdown or json")
	importCmd.Flags().BoolVar(&importPreserveDates, "preserve-dates", true, "Keep release dates from the source")
	importCmd.Flags().BoolVar(&importPreserveVersions, "preserve-versions", true, "Keep version numbers from the source")
	importCmd.Flags().StringVar(&importDateFormat, "date-format", "", "Date render format using YYYY, MM and DD tokens")
	importCmd.Flags().StringVar(&importVersionPrefix, "version-prefix", "", `Prefix for rendered release versions, e.g. "v"`)
	importCmd.Flags().BoolVar(&importNoWrite, "no-write", false, "Print the result to stdout instead of writing a file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadToolConfig(cmd)
	if err != nil {
		return err
	}

	sourceFormat, err := resolveFormat(importFormat, cfg.Format)
	if err != nil {
		return err
	}
	outputFormat, err := resolveOutputFormat(importOutputFormat, cfg.OutputFormat)
	if err != nil {
		return err
	}

	result, err := changelog.ImportFile(path, sourceFormat)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return clierrors.ChangelogNotFound(path)
		}
		var jsonSyntaxErr *json.SyntaxError
		var jsonTypeErr *json.UnmarshalTypeError
		if errors.As(err, &jsonSyntaxErr) || errors.As(err, &jsonTypeErr) {
			return clierrors.MalformedJSON(path, err)
		}
		return clierrors.ChangelogParseFailed(path, err)
	}

	printWarnings(cmd, result.Warnings)
	if !result.Success {
		return clierrors.NoEntriesFound(path)
	}

	applyImportOverrides(result.Documents)

	if vr := changelog.ValidateDocuments(result.Documents...); len(vr.Warnings) > 0 {
		printWarnings(cmd, vr.Warnings)
	}

	opts := markdownOptions(cfg, renderDialect(result.Format))
	if importVersionPrefix != "" {
		opts.VersionPrefix = importVersionPrefix
	}
	if importDateFormat != "" {
		opts.DateFormat = importDateFormat
	}

	rendered, err := renderDocuments(result.Documents, outputFormat, opts)
	if err != nil {
		return clierrors.NewRuntimeError(fmt.Sprintf("rendering output: %v", err))
	}

	if importNoWrite {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	}

	outPath := importOutput
	if outPath == "" {
		outPath = defaultImportOutput(outputFormat)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return clierrors.FileNotWritable(outPath, err)
	}

	topts := format.TerminalOptions{Plain: cfg.Plain}
	if err := format.FormatSummary(cmd.OutOrStdout(), result.Documents, topts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s → %s\n", path, outPath)
	return nil
}

// applyImportOverrides clears versions and re-stamps dates when the
// preserve flags are turned off.
func applyImportOverrides(docs []*changelog.Document) {
	if !importPreserveVersions {
		for _, doc := range docs {
			doc.Version = changelog.VersionUnknown
		}
	}
	if !importPreserveDates {
		today := time.Now().Format("2006-01-02")
		for _, doc := range docs {
			doc.Date = today
			for _, c := range doc.Commits {
				c.Date = today
			}
		}
	}
}

// resolveFormat picks the source dialect from the flag, then config,
// then auto-detection.
func resolveFormat(flagValue, configValue string) (changelog.Format, error) {
	v := flagValue
	if v == "" {
		v = configValue
	}
	if v == "" {
		return changelog.FormatAuto, nil
	}
	switch f := changelog.Format(strings.ToLower(strings.TrimSpace(v))); f {
	case changelog.FormatAuto, changelog.FormatKeepAChangelog, changelog.FormatConventional,
		changelog.FormatPlainMarkdown, changelog.FormatJSON:
		return f, nil
	}
	return "", clierrors.InvalidFormat(v)
}

// resolveOutputFormat picks markdown or json from the flag, then config.
func resolveOutputFormat(flagValue, configValue string) (string, error) {
	v := flagValue
	if v == "" {
		v = configValue
	}
	if v == "" {
		return "markdown", nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "markdown":
		return "markdown", nil
	case "json":
		return "json", nil
	}
	return "", clierrors.InvalidOutputFormat(v)
}

// renderDialect maps a detected source format to the markdown dialect
// used for rendering. JSON sources render as Keep a Changelog.
func renderDialect(detected changelog.Format) changelog.Format {
	if detected == "" || detected == changelog.FormatAuto || detected == changelog.FormatJSON {
		return changelog.FormatKeepAChangelog
	}
	return detected
}

// markdownOptions builds render options from the effective config.
func markdownOptions(cfg *config.Configuration, dialect changelog.Format) format.RenderOptions {
	return format.RenderOptions{
		Dialect:       dialect,
		VersionPrefix: cfg.VersionPrefix,
		DateFormat:    cfg.DateFormat,
		RepoURL:       resolveRepoURL(cfg),
	}
}

// resolveRepoURL expands the repo_url=auto config value to the origin
// remote of the surrounding repository, if any.
func resolveRepoURL(cfg *config.Configuration) string {
	if cfg.RepoURL == "auto" {
		return gitutil.DetectRepoURL("")
	}
	return cfg.RepoURL
}

// renderDocuments renders the documents as markdown or canonical JSON.
func renderDocuments(docs []*changelog.Document, outputFormat string, opts format.RenderOptions) (string, error) {
	if outputFormat == "json" {
		return format.RenderJSONString(docs)
	}
	return format.RenderMarkdownString(docs, opts)
}

func defaultImportOutput(outputFormat string) string {
	if outputFormat == "json" {
		return "CHANGELOG.imported.json"
	}
	return "CHANGELOG.imported.md"
}
