//go:build e2e

package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-changelog/internal/testutil"
)

func TestE2E_ConfigInit(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "init")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.Contains(t, result.Stdout, "Wrote default configuration")
	require.True(t, env.FileExists(".changelog/config.yml"))
	require.Contains(t, env.ReadFile(".changelog/config.yml"), "format:")

	rerun := env.Run("config", "init")
	require.Equal(t, 2, rerun.ExitCode, "a second init must refuse to overwrite")
	require.Contains(t, rerun.Stderr, "already exists")

	forced := env.Run("config", "init", "--force")
	require.Equal(t, 0, forced.ExitCode, "stderr: %s", forced.Stderr)
}

func TestE2E_ConfigShowReflectsSources(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env := testutil.NewE2EEnv(t)

		result := env.Run("config", "show")

		require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
		require.Contains(t, result.Stdout, "format: auto")
		require.Contains(t, result.Stdout, "strategy: by-date")
	})

	t.Run("project config overrides defaults", func(t *testing.T) {
		env := testutil.NewE2EEnv(t)
		env.WriteProjectConfig("strategy: by-version\n")

		result := env.Run("config", "show")

		require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
		require.Contains(t, result.Stdout, "strategy: by-version")
	})

	t.Run("environment overrides project config", func(t *testing.T) {
		env := testutil.NewE2EEnv(t)
		env.WriteProjectConfig("strategy: by-version\n")

		result := env.RunWithEnv(map[string]string{
			"CHANGELOG_STRATEGY": "by-package",
		}, "config", "show")

		require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
		require.Contains(t, result.Stdout, "strategy: by-package")
	})
}

func TestE2E_ConfigDiscoveryIsPerDirectory(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteProjectConfig("strategy: by-version\n")
	env.WriteFile("packages/core/CHANGELOG.md", "# Changelog\n")

	inRoot := env.Run("config", "show")
	require.Equal(t, 0, inRoot.ExitCode, "stderr: %s", inRoot.Stderr)
	require.Contains(t, inRoot.Stdout, "strategy: by-version")

	// .changelog/config.yml is resolved against the working directory,
	// so a run from a subdirectory falls back to the defaults.
	inSub := env.RunIn(env.Path("packages/core"), "config", "show")
	require.Equal(t, 0, inSub.ExitCode, "stderr: %s", inSub.Stderr)
	require.Contains(t, inSub.Stdout, "strategy: by-date")
}

func TestE2E_ConfigDrivesCommandBehavior(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteFile("CHANGELOG.md", keepAChangelogFixture)
	env.WriteProjectConfig("output_format: json\n")

	fromConfig := env.Run("import", "CHANGELOG.md", "--no-write")
	require.Equal(t, 0, fromConfig.ExitCode, "stderr: %s", fromConfig.Stderr)
	require.True(t, strings.HasPrefix(strings.TrimSpace(fromConfig.Stdout), "["),
		"configured json output should replace markdown:\n%s", fromConfig.Stdout)

	fromEnv := env.RunWithEnv(map[string]string{
		"CHANGELOG_OUTPUT_FORMAT": "markdown",
	}, "import", "CHANGELOG.md", "--no-write")
	require.Equal(t, 0, fromEnv.ExitCode, "stderr: %s", fromEnv.Stderr)
	require.Contains(t, fromEnv.Stdout, "## [1.1.0] - 2024-02-02",
		"the environment must win over the project config")
}

func TestE2E_ConfigPath(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "path")

	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.Contains(t, result.Stdout, "user:")
	require.Contains(t, result.Stdout, "project:")
	require.Contains(t, result.Stdout, "legacy:")
	require.Contains(t, result.Stdout, "(not found)")
	require.Contains(t, result.Stdout, "CHANGELOG_")
}

func TestE2E_ConfigKeys(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "keys")

	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.Contains(t, result.Stdout, "strategy")
	require.Contains(t, result.Stdout, "one of: by-date, by-version, by-package")
	require.Contains(t, result.Stdout, "deduplicate_key")
	require.Contains(t, result.Stdout, "watch_debounce")
}
