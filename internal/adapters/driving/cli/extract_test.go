package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract <path>", extractCmd.Use)
}

func TestExtractCmd_RequiresPathArgument(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "arg")
	assert.Contains(t, buf.String(), "Usage:", "a missing argument must show usage")
	assert.Contains(t, buf.String(), "extract <path>")
}

func TestExtractCmd_InvalidPath(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"extract", filepath.Join(t.TempDir(), "does-not-exist.html"),
		"--config-dir", t.TempDir(),
	})
	defer func() {
		rootCmd.SetArgs(nil)
		configDir = ""
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input path")
}

func TestExtractCmd_Flags(t *testing.T) {
	assert.NotNil(t, extractCmd.Flags().Lookup("output"))
	assert.NotNil(t, extractCmd.Flags().Lookup("model"))
	assert.NotNil(t, extractCmd.Flags().Lookup("resume"))
}
