package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCmdStructure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "validate <file>...", validateCmd.Use)
	assert.Equal(t, GroupInspection, validateCmd.GroupID)
	assert.NotNil(t, validateCmd.RunE)
	assert.NoError(t, validateCmd.Args(validateCmd, []string{"CHANGELOG.md"}))
	assert.Error(t, validateCmd.Args(validateCmd, nil))
}

func TestValidateCmdVersionFlag(t *testing.T) {
	t.Parallel()

	flag := validateCmd.Flags().Lookup("version")
	require.NotNil(t, flag, "validate should take --version")
	assert.Equal(t, "", flag.DefValue)
}
