package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	"github.com/poly1603/ldesign-changelog/internal/config"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
	"github.com/poly1603/ldesign-changelog/internal/format"
	"github.com/poly1603/ldesign-changelog/internal/progress"
	"github.com/poly1603/ldesign-changelog/internal/watch"
)

var (
	mergeOutput         string
	mergeStrategy       string
	mergeOutputFormat   string
	mergeNoDeduplicate  bool
	mergeDedupKey       string
	mergePreservePrefix bool
	mergePackageNames   string
	mergeWatch          bool
	mergeNoWrite        bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Merge several changelogs into one document",
	Long: `Merge normalizes every input changelog, regardless of markup dialect,
and folds them into a single merged document.

Duplicate entries are removed by default: entries sharing a commit hash
or an identical type, scope and subject are kept once, first occurrence
wins. The --strategy flag orders the merged entries by date, by source
order or by scope. With --package-names each input's entries can keep a
package prefix on their scope so their origin stays visible.

Any unreadable or malformed input aborts the merge; there are no
partial results.`,
	Example: `  # Merge two package changelogs into CHANGELOG.md
  changelog merge packages/core/CHANGELOG.md packages/store/CHANGELOG.md

  # Tag entries with their package and group by scope
  changelog merge a.md b.md --package-names core,store --preserve-package-prefix --strategy by-package

  # Keep duplicates and write the canonical JSON model
  changelog merge a.md b.md --no-deduplicate --format json -o merged.json

  # Re-merge whenever an input changes
  changelog merge packages/*/CHANGELOG.md --watch`,
	Args:    wrapArgs(cobra.MinimumNArgs(1)),
	GroupID: GroupCore,
	RunE:    runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file (default CHANGELOG.md or CHANGELOG.json)")
	mergeCmd.Flags().StringVarP(&mergeStrategy, "strategy", "s", "", "Entry ordering: by-date, by-version or by-package")
	mergeCmd.Flags().StringVar(&mergeOutputFormat, "format", "", "Output format: markdown or json")
	mergeCmd.Flags().BoolVar(&mergeNoDeduplicate, "no-deduplicate", false, "Keep duplicate entries instead of removing them")
	mergeCmd.Flags().StringVar(&mergeDedupKey, "deduplicate-key", "", "Duplicate identity: hash, message or both")
	mergeCmd.Flags().BoolVar(&mergePreservePrefix, "preserve-package-prefix", false, "Prefix entry scopes with their package name")
	mergeCmd.Flags().StringVar(&mergePackageNames, "package-names", "", "Comma-separated package names, one per input file")
	mergeCmd.Flags().BoolVarP(&mergeWatch, "watch", "w", false, "Re-merge whenever an input file changes")
	mergeCmd.Flags().BoolVar(&mergeNoWrite, "no-write", false, "Print the result to stdout instead of writing a file")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig(cmd)
	if err != nil {
		return err
	}

	strategy, err := resolveStrategy(mergeStrategy, cfg.Strategy)
	if err != nil {
		return err
	}
	dedupKey, err := resolveDedupKey(mergeDedupKey, cfg.DeduplicateKey)
	if err != nil {
		return err
	}
	outputFormat, err := resolveOutputFormat(mergeOutputFormat, cfg.OutputFormat)
	if err != nil {
		return err
	}
	names, err := resolvePackageNames(cfg, len(args))
	if err != nil {
		return err
	}

	sources := make([]changelog.Source, len(args))
	for i, path := range args {
		sources[i] = changelog.Source{Path: path, Format: changelog.FormatAuto}
		if len(names) > 0 {
			sources[i].PackageName = names[i]
		}
	}

	opts := changelog.MergeOptions{
		Strategy:              strategy,
		Deduplicate:           cfg.Deduplicate && !mergeNoDeduplicate,
		DeduplicateKey:        dedupKey,
		PreservePackagePrefix: mergePreservePrefix || cfg.PreservePackagePrefix,
	}

	engine := changelog.NewEngine(changelog.WithMaxParallel(cfg.MaxParallel))
	display := progress.NewProgressDisplay(progress.DetectTerminalCapabilities())

	if err := mergeOnce(cmd, engine, display, sources, opts, outputFormat, cfg); err != nil {
		return err
	}
	if !mergeWatch {
		return nil
	}
	return watchAndRemerge(cmd, engine, display, sources, opts, outputFormat, cfg, args)
}

// mergeOnce runs one merge over the sources and writes or prints the
// result. Reused verbatim by watch mode on every file change.
func mergeOnce(cmd *cobra.Command, engine *changelog.Engine, display *progress.ProgressDisplay, sources []changelog.Source, opts changelog.MergeOptions, outputFormat string, cfg *config.Configuration) error {
	display.Start(fmt.Sprintf("Merging %d changelogs...", len(sources)))

	merged, err := engine.Merge(cmd.Context(), sources, opts)
	if err != nil {
		display.Fail("Merge failed")
		var pe *changelog.ParseError
		if errors.As(err, &pe) && errors.Is(err, fs.ErrNotExist) {
			return clierrors.ChangelogNotFound(pe.Path)
		}
		return clierrors.MergeFailed(err)
	}
	display.Complete(fmt.Sprintf("Merged %d changelogs", len(sources)))

	rendered, err := renderDocuments([]*changelog.Document{merged}, outputFormat, markdownOptions(cfg, changelog.FormatKeepAChangelog))
	if err != nil {
		return clierrors.NewRuntimeError(fmt.Sprintf("rendering output: %v", err))
	}

	out := cmd.OutOrStdout()
	if mergeNoWrite {
		fmt.Fprint(out, rendered)
		return nil
	}

	outPath := mergeOutput
	if outPath == "" {
		outPath = defaultMergeOutput(outputFormat)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return clierrors.FileNotWritable(outPath, err)
	}

	topts := format.TerminalOptions{Plain: cfg.Plain}
	if err := format.FormatSummary(out, []*changelog.Document{merged}, topts); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Merged %d changelogs → %s\n", len(sources), outPath)
	return nil
}

// watchAndRemerge blocks watching the input files and re-runs the merge
// after each change burst. A failed re-merge is reported but does not
// stop the watch; Ctrl-C ends it cleanly.
func watchAndRemerge(cmd *cobra.Command, engine *changelog.Engine, display *progress.ProgressDisplay, sources []changelog.Source, opts changelog.MergeOptions, outputFormat string, cfg *config.Configuration, paths []string) error {
	debounce, err := time.ParseDuration(cfg.WatchDebounce)
	if err != nil {
		debounce = watch.DefaultDebounce
	}

	w, err := watch.New(paths, debounce)
	if err != nil {
		return clierrors.WatchFailed(err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d changelogs for changes. Press Ctrl-C to stop.\n", len(paths))

	err = w.Run(ctx, func() {
		if mergeErr := mergeOnce(cmd, engine, display, sources, opts, outputFormat, cfg); mergeErr != nil {
			reportError(cmd.ErrOrStderr(), mergeErr)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return clierrors.WatchFailed(err)
	}
	return nil
}

// resolveStrategy picks the merge strategy from the flag, then config.
func resolveStrategy(flagValue, configValue string) (changelog.Strategy, error) {
	v := flagValue
	if v == "" {
		v = configValue
	}
	if v == "" {
		return changelog.StrategyByDate, nil
	}
	switch s := changelog.Strategy(strings.ToLower(strings.TrimSpace(v))); s {
	case changelog.StrategyByDate, changelog.StrategyByVersion, changelog.StrategyByPackage:
		return s, nil
	}
	return "", clierrors.InvalidStrategy(v)
}

// resolveDedupKey picks the duplicate identity from the flag, then config.
func resolveDedupKey(flagValue, configValue string) (changelog.DedupKey, error) {
	v := flagValue
	if v == "" {
		v = configValue
	}
	if v == "" {
		return changelog.DedupByBoth, nil
	}
	switch k := changelog.DedupKey(strings.ToLower(strings.TrimSpace(v))); k {
	case changelog.DedupByHash, changelog.DedupByMessage, changelog.DedupByBoth:
		return k, nil
	}
	return "", clierrors.InvalidDedupKey(v)
}

// resolvePackageNames returns one package name per input file, from the
// flag first and the config second. An empty result means no prefixes.
func resolvePackageNames(cfg *config.Configuration, fileCount int) ([]string, error) {
	var names []string
	if mergePackageNames != "" {
		for _, n := range strings.Split(mergePackageNames, ",") {
			names = append(names, strings.TrimSpace(n))
		}
	} else if len(cfg.PackageNames) > 0 {
		names = cfg.PackageNames
	}
	if len(names) == 0 {
		return nil, nil
	}
	if len(names) != fileCount {
		return nil, clierrors.PackageNamesMismatch(len(names), fileCount)
	}
	return names, nil
}

func defaultMergeOutput(outputFormat string) string {
	if outputFormat == "json" {
		return "CHANGELOG.json"
	}
	return "CHANGELOG.md"
}
