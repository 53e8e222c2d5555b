package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Wiring(t *testing.T) {
	assert.Equal(t, "rustle-plan", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["plan"], "plan command group should be registered")
	assert.True(t, names["version"], "version command should be registered")
	assert.True(t, names["help"], "custom help command should replace the default")

	for _, flag := range []string{"verbose", "quiet", "log-format", "config", "output", "timeout"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "expected --%s persistent flag", flag)
	}
}

func TestRootCmd_VersionCommand(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "version" {
			out := &bytes.Buffer{}
			c.SetOut(out)
			err := c.RunE(c, nil)
			require.NoError(t, err)
			return
		}
	}
	t.Fatal("version command not found")
}

func TestGetters_ReturnUnderlyingGlobals(t *testing.T) {
	assert.Equal(t, logger, GetLogger())
	assert.Equal(t, signalHandler, GetSignalHandler())
	assert.Equal(t, errorFormatter, GetErrorFormatter())
	assert.Equal(t, shellIntegration, GetShellIntegration())
}
