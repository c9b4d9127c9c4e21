package errors

import "fmt"

// Domain-specific error constructors. Keeping the message text and
// remediation steps in one place keeps command code short and the
// guidance consistent across commands.

// ChangelogNotFound is returned when an input changelog path doesn't exist.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog file not found: %s", path),
		"Check the file path for typos",
		"Run the command from the repository root, or pass an absolute path",
	)
}

// ChangelogParseFailed is returned when a source cannot be parsed at all.
func ChangelogParseFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Parse,
		fmt.Sprintf("failed to parse %s", path),
		"Verify the file is a changelog in markdown or JSON form",
		"Pass --format to skip detection if the dialect is known",
	)
}

// MalformedJSON is returned when a JSON changelog cannot be decoded.
func MalformedJSON(path string, err error) *CLIError {
	return WrapWithMessage(err, Parse,
		fmt.Sprintf("malformed JSON in %s", path),
		"Validate the file with a JSON linter",
		"Expected a changelog document object or an array of them",
	)
}

// NoEntriesFound is returned when an import produced zero entries.
func NoEntriesFound(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("no changelog entries found in %s", path),
		"Check that the file contains version headers like \"## [1.0.0] - 2024-01-01\"",
		"Pass --format if automatic detection picked the wrong dialect",
	)
}

// InvalidFormat is returned for an unrecognized --format value.
func InvalidFormat(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid format %q", value),
		"--format auto|keep-a-changelog|conventional-changelog|plain-markdown|json",
		"Use \"auto\" to detect the dialect from content",
	)
}

// InvalidOutputFormat is returned for an unrecognized --output-format value.
func InvalidOutputFormat(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid output format %q", value),
		"--output-format markdown|json",
	)
}

// InvalidStrategy is returned for an unrecognized --strategy value.
func InvalidStrategy(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid merge strategy %q", value),
		"--strategy by-date|by-version|by-package",
	)
}

// InvalidDedupKey is returned for an unrecognized --deduplicate-key value.
func InvalidDedupKey(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid deduplication key %q", value),
		"--deduplicate-key hash|message|both",
	)
}

// PackageNamesMismatch is returned when --package-names doesn't align
// with the merge sources.
func PackageNamesMismatch(names, files int) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("--package-names lists %d names for %d files", names, files),
		"Pass one comma-separated name per merge source, in the same order",
		"Or omit --package-names to merge without package scoping",
	)
}

// FileNotWritable is returned when the output destination can't be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write %s", path),
		"Check directory permissions",
		"Pass --output with a writable destination, or --no-write to print to stdout",
	)
}

// ConfigFileNotFound is returned when an explicit config path is missing.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the --config path",
		"Or drop --config to use .changelog/config.yml discovery",
	)
}

// ConfigParseFailed is returned when a config file cannot be loaded.
func ConfigParseFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config %s", path),
		"Fix the reported syntax error",
		"Keys must match the documented configuration schema",
	)
}

// ConfigSyntaxError is returned when config YAML fails syntax validation.
func ConfigSyntaxError(path string, line int, err error) *CLIError {
	msg := fmt.Sprintf("invalid YAML in %s", path)
	if line > 0 {
		msg = fmt.Sprintf("invalid YAML in %s (line %d)", path, line)
	}
	return WrapWithMessage(err, Configuration, msg,
		"Check indentation and quoting at the reported line",
	)
}

// WatchFailed is returned when the file watcher cannot be started.
func WatchFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"cannot watch changelog sources",
		"Check open-file limits (the watcher needs one descriptor per source)",
		"Re-run without --watch to merge once",
	)
}

// MergeFailed wraps a merge engine failure.
func MergeFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"merge failed",
		"All sources must be readable; nothing was written",
	)
}
