package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
}

func TestServeCmd_HasAddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag, "addr flag should exist")
}

func TestServeCmd_HasBackendFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("backend")
	require.NotNil(t, flag, "backend flag should exist")
}

func TestServeCmd_Short(t *testing.T) {
	assert.Equal(t, "Run the local HTTP API", serveCmd.Short)
}
