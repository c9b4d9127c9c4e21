package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedChangelogPresent(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, Embedded(), "the changelog must be embedded at build time")
}

func TestLoadEmbedded(t *testing.T) {
	t.Parallel()

	result, err := LoadEmbedded()
	require.NoError(t, err)
	require.True(t, result.Success, "the tool's own changelog must import cleanly")

	assert.True(t, result.HasUnreleased() || result.GetLatestRelease() != nil)
	for _, doc := range result.Documents {
		assert.NotEmpty(t, doc.Version)
		assert.NotEmpty(t, doc.Commits, "every released block documents at least one change")
	}
}
