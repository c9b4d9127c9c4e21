package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
	"github.com/poly1603/ldesign-changelog/internal/config"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
)

func TestMergeCmdStructure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "merge <file>...", mergeCmd.Use)
	assert.Equal(t, GroupCore, mergeCmd.GroupID)
	assert.NotNil(t, mergeCmd.RunE)
	assert.NoError(t, mergeCmd.Args(mergeCmd, []string{"a.md"}))
	assert.NoError(t, mergeCmd.Args(mergeCmd, []string{"a.md", "b.md", "c.md"}))
	assert.Error(t, mergeCmd.Args(mergeCmd, nil), "merge requires at least one file")
}

func TestMergeCmdFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName  string
		shorthand string
	}{
		"output":                  {flagName: "output", shorthand: "o"},
		"strategy":                {flagName: "strategy", shorthand: "s"},
		"format":                  {flagName: "format"},
		"no deduplicate":          {flagName: "no-deduplicate"},
		"deduplicate key":         {flagName: "deduplicate-key"},
		"preserve package prefix": {flagName: "preserve-package-prefix"},
		"package names":           {flagName: "package-names"},
		"watch":                   {flagName: "watch", shorthand: "w"},
		"no write":                {flagName: "no-write"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := mergeCmd.Flags().Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestResolveStrategy(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagValue   string
		configValue string
		want        changelog.Strategy
		wantErr     bool
	}{
		"empty defaults to by-date": {
			want: changelog.StrategyByDate,
		},
		"by-version": {
			flagValue: "by-version",
			want:      changelog.StrategyByVersion,
		},
		"by-package from config": {
			configValue: "by-package",
			want:        changelog.StrategyByPackage,
		},
		"flag wins over config": {
			flagValue:   "by-date",
			configValue: "by-package",
			want:        changelog.StrategyByDate,
		},
		"mixed case": {
			flagValue: "By-Date",
			want:      changelog.StrategyByDate,
		},
		"unknown strategy": {
			flagValue: "alphabetical",
			wantErr:   true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveStrategy(tt.flagValue, tt.configValue)
			if tt.wantErr {
				require.Error(t, err)
				cliErr := clierrors.AsCLIError(err)
				require.NotNil(t, cliErr)
				assert.Equal(t, clierrors.Argument, cliErr.Category)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDedupKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagValue   string
		configValue string
		want        changelog.DedupKey
		wantErr     bool
	}{
		"empty defaults to both": {want: changelog.DedupByBoth},
		"hash":                   {flagValue: "hash", want: changelog.DedupByHash},
		"message":                {flagValue: "message", want: changelog.DedupByMessage},
		"config fallback":        {configValue: "hash", want: changelog.DedupByHash},
		"unknown key":            {flagValue: "subject", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveDedupKey(tt.flagValue, tt.configValue)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePackageNames(t *testing.T) {
	// Mutates the package-level flag value, so no t.Parallel.
	orig := mergePackageNames
	t.Cleanup(func() { mergePackageNames = orig })

	tests := map[string]struct {
		flagValue string
		cfgNames  []string
		fileCount int
		want      []string
		wantErr   bool
	}{
		"no names anywhere": {
			fileCount: 2,
			want:      nil,
		},
		"flag names are split and trimmed": {
			flagValue: "core, store ,theme",
			fileCount: 3,
			want:      []string{"core", "store", "theme"},
		},
		"config names apply when flag is empty": {
			cfgNames:  []string{"core", "store"},
			fileCount: 2,
			want:      []string{"core", "store"},
		},
		"flag wins over config": {
			flagValue: "a,b",
			cfgNames:  []string{"x", "y"},
			fileCount: 2,
			want:      []string{"a", "b"},
		},
		"count mismatch is an error": {
			flagValue: "core,store",
			fileCount: 3,
			wantErr:   true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			mergePackageNames = tt.flagValue
			cfg := &config.Configuration{PackageNames: tt.cfgNames}

			got, err := resolvePackageNames(cfg, tt.fileCount)
			if tt.wantErr {
				require.Error(t, err)
				cliErr := clierrors.AsCLIError(err)
				require.NotNil(t, cliErr)
				assert.Equal(t, clierrors.Argument, cliErr.Category)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultMergeOutput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CHANGELOG.md", defaultMergeOutput("markdown"))
	assert.Equal(t, "CHANGELOG.json", defaultMergeOutput("json"))
}
