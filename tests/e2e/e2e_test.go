//go:build e2e

// Package e2e provides end-to-end tests for the changelog CLI.
// These tests exercise the full command chain against a built binary in
// an isolated environment.
//
// To run these tests:
//
//	go test -tags=e2e ./tests/e2e/...
package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-changelog/internal/testutil"
)

// Shared fixture texts, one per markup dialect. The entries overlap so
// merge tests can exercise deduplication across files.
const (
	keepAChangelogFixture = `# Changelog

All notable changes to this project will be documented in this file.

## [1.1.0] - 2024-02-02

### Added

- core: add streaming exports
- add retry budgets

### Fixed

- parser: handle empty headings

## [1.0.0] - 2024-01-01

### Added

- first release
`

	conventionalFixture = `## [1.1.0](https://github.com/acme/tool/compare/v1.0.0...v1.1.0) (2024-02-02)

### Features

* **core:** add streaming exports
* **api:** add bulk export ([a1b2c3d](https://github.com/acme/tool/commit/a1b2c3d))

### Bug Fixes

* handle nil config
`

	plainFixture = `## 0.9.0 (2024-01-15)

### 新增

- theme: dark mode palette

### 修复

- fix flickering tooltip
`
)

func TestE2E_BasicCommands(t *testing.T) {
	tests := map[string]struct {
		args          []string
		wantExitCode  int
		wantStdoutSub string
	}{
		"version prints build information": {
			args:          []string{"version"},
			wantExitCode:  0,
			wantStdoutSub: "changelog",
		},
		"help lists command groups": {
			args:          []string{"--help"},
			wantExitCode:  0,
			wantStdoutSub: "Core Commands:",
		},
		"help shows inspection group": {
			args:          []string{"--help"},
			wantExitCode:  0,
			wantStdoutSub: "Inspection Commands:",
		},
		"import help documents the format flag": {
			args:          []string{"import", "--help"},
			wantExitCode:  0,
			wantStdoutSub: "--format",
		},
		"merge help documents strategies": {
			args:          []string{"merge", "--help"},
			wantExitCode:  0,
			wantStdoutSub: "by-date",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)

			result := env.Run(tt.args...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"unexpected exit code\nstdout: %s\nstderr: %s",
				result.Stdout, result.Stderr)
			require.Contains(t, result.Stdout, tt.wantStdoutSub)
		})
	}
}

func TestE2E_EnvironmentSanitization(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	require.False(t, env.HasConfigOverrideInEnv(),
		"CHANGELOG_* variables from the host shell must not leak into test runs")

	require.True(t, strings.HasPrefix(env.BinDir(), env.TempDir()),
		"bin dir should be inside the temp dir for isolation")
}

func TestE2E_VersionChangelogFlag(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("version", "--changelog")

	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.Contains(t, result.Stdout, "Unreleased",
		"the embedded release history should be printed")
}
