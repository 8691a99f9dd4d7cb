package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
}

func TestIndexCmd_HasFlags(t *testing.T) {
	require.NotNil(t, indexCmd.Flags().Lookup("corpus"))
	require.NotNil(t, indexCmd.Flags().Lookup("limit"))
	require.NotNil(t, indexCmd.Flags().Lookup("authored"))
	require.NotNil(t, indexCmd.Flags().Lookup("rate"))
}

func TestIndexCmd_RequiresCorpusDir(t *testing.T) {
	_, err := execRoot(t, "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no corpus directory")
}
