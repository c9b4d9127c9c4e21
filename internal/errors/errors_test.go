package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorError(t *testing.T) {
	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"message only": {
			err:  &CLIError{Category: Runtime, Message: "merge failed"},
			want: "merge failed",
		},
		"wrapped cause is not repeated": {
			err: &CLIError{
				Category: Parse,
				Message:  "failed to parse CHANGELOG.md",
				Err:      stderrors.New("unexpected token"),
			},
			want: "failed to parse CHANGELOG.md",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, Runtime)

	require.NotNil(t, err)
	assert.Equal(t, "boom", err.Message)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))

	assert.Nil(t, Wrap(nil, Runtime))
}

func TestWrapWithMessage(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := WrapWithMessage(cause, Runtime, "cannot write out.md", "Check directory permissions")

	require.NotNil(t, err)
	assert.Equal(t, "cannot write out.md: permission denied", err.Message)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, []string{"Check directory permissions"}, err.Remediation)

	assert.Nil(t, WrapWithMessage(nil, Runtime, "cannot write out.md"))
}

func TestAsCLIError(t *testing.T) {
	tests := map[string]struct {
		err      error
		want     bool
		category ErrorCategory
	}{
		"direct": {
			err:      NewArgumentError("invalid format \"tsv\""),
			want:     true,
			category: Argument,
		},
		"wrapped in fmt chain": {
			err:      fmt.Errorf("run: %w", NewConfigError("bad config")),
			want:     true,
			category: Configuration,
		},
		"plain error": {
			err:  stderrors.New("boom"),
			want: false,
		},
		"nil": {
			err:  nil,
			want: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := AsCLIError(tc.err)
			assert.Equal(t, tc.want, got != nil)
			assert.Equal(t, tc.want, IsCLIError(tc.err))
			if tc.want {
				assert.Equal(t, tc.category, got.Category)
			}
		})
	}
}

func TestConstructorCategories(t *testing.T) {
	cause := stderrors.New("bad token")

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		usage    bool
	}{
		"changelog not found": {
			err:      ChangelogNotFound("CHANGELOG.md"),
			category: Prerequisite,
		},
		"parse failed": {
			err:      ChangelogParseFailed("CHANGELOG.md", cause),
			category: Parse,
		},
		"malformed json": {
			err:      MalformedJSON("changelog.json", cause),
			category: Parse,
		},
		"no entries": {
			err:      NoEntriesFound("CHANGELOG.md"),
			category: Runtime,
		},
		"invalid format": {
			err:      InvalidFormat("tsv"),
			category: Argument,
			usage:    true,
		},
		"invalid output format": {
			err:      InvalidOutputFormat("xml"),
			category: Argument,
			usage:    true,
		},
		"invalid strategy": {
			err:      InvalidStrategy("by-magic"),
			category: Argument,
			usage:    true,
		},
		"invalid dedup key": {
			err:      InvalidDedupKey("color"),
			category: Argument,
			usage:    true,
		},
		"package names mismatch": {
			err:      PackageNamesMismatch(2, 3),
			category: Argument,
		},
		"file not writable": {
			err:      FileNotWritable("out.md", cause),
			category: Runtime,
		},
		"config not found": {
			err:      ConfigFileNotFound("cfg.yml"),
			category: Configuration,
		},
		"config parse failed": {
			err:      ConfigParseFailed("cfg.yml", cause),
			category: Configuration,
		},
		"config syntax error": {
			err:      ConfigSyntaxError("cfg.yml", 7, cause),
			category: Configuration,
		},
		"watch failed": {
			err:      WatchFailed(cause),
			category: Runtime,
		},
		"merge failed": {
			err:      MergeFailed(cause),
			category: Runtime,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.category, tc.err.Category)
			assert.NotEmpty(t, tc.err.Message)
			if tc.usage {
				assert.NotEmpty(t, tc.err.Usage)
			} else {
				assert.NotEmpty(t, tc.err.Remediation)
			}
		})
	}
}

func TestConfigSyntaxErrorLine(t *testing.T) {
	cause := stderrors.New("mapping values are not allowed in this context")

	withLine := ConfigSyntaxError("cfg.yml", 7, cause)
	assert.Contains(t, withLine.Message, "line 7")

	withoutLine := ConfigSyntaxError("cfg.yml", 0, cause)
	assert.NotContains(t, withoutLine.Message, "line")
}

func TestFormatErrorPlain(t *testing.T) {
	err := InvalidFormat("tsv")
	out := FormatErrorPlain(err)

	assert.Contains(t, out, "invalid format \"tsv\"")
	assert.Contains(t, out, "--format auto|keep-a-changelog|conventional-changelog|plain-markdown|json")
	assert.Contains(t, out, "To fix this:")
}
