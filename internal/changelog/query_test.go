package changelog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const querySample = `## [Unreleased]

### Added

- upcoming feature

## [2.1.0] - 2024-06-01

### Added

- core: streaming exports

### Fixed

- fix flaky reconnect

## [2.0.0] - 2024-04-01

### Changed

- new configuration layout
`

func importQuerySample(t *testing.T) *ImportResult {
	t.Helper()
	result, err := ImportText(querySample, FormatKeepAChangelog)
	require.NoError(t, err)
	require.True(t, result.Success)
	return result
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	result := importQuerySample(t)

	tests := map[string]struct {
		version string
		wantErr bool
	}{
		"exact match":         {version: "2.1.0"},
		"v prefix accepted":   {version: "v2.1.0"},
		"unreleased sentinel": {version: "Unreleased"},
		"missing version":     {version: "9.9.9", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := result.GetVersion(tt.version)
			if tt.wantErr {
				require.Error(t, err)
				var nf *VersionNotFoundError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, tt.version, nf.Version)
				assert.Equal(t, result.ListVersions(), nf.AvailableVersions)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, doc)
		})
	}
}

func TestUnreleasedQueries(t *testing.T) {
	t.Parallel()

	result := importQuerySample(t)
	require.True(t, result.HasUnreleased())

	unreleased := result.GetUnreleased()
	require.NotNil(t, unreleased)
	assert.Equal(t, VersionUnreleased, unreleased.Version)

	latest := result.GetLatestRelease()
	require.NotNil(t, latest)
	assert.Equal(t, "2.1.0", latest.Version, "latest release skips the unreleased block")
}

func TestLatestReleaseWithoutReleases(t *testing.T) {
	t.Parallel()

	result, err := ImportText("## [Unreleased]\n\n- pending\n", FormatKeepAChangelog)
	require.NoError(t, err)
	assert.Nil(t, result.GetLatestRelease())
}

func TestListVersionsAndCount(t *testing.T) {
	t.Parallel()

	result := importQuerySample(t)
	assert.Equal(t, []string{VersionUnreleased, "2.1.0", "2.0.0"}, result.ListVersions())
	assert.Equal(t, 3, result.DocumentCount())
	assert.Equal(t, 4, result.TotalCommits())
}

func TestSectionAndCommitLookups(t *testing.T) {
	t.Parallel()

	result := importQuerySample(t)
	doc, err := result.GetVersion("2.1.0")
	require.NoError(t, err)

	added := doc.SectionByType(TypeFeat)
	require.NotNil(t, added)
	assert.Equal(t, "Added", added.Title)
	assert.Nil(t, doc.SectionByType(TypeSecurity))

	fixes := doc.CommitsOfType(TypeFix)
	require.Len(t, fixes, 1)
	assert.Equal(t, "fix flaky reconnect", fixes[0].Subject)
	assert.Empty(t, doc.CommitsOfType(TypeDocs))
}
