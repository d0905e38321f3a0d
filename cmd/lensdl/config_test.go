package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensdl/pkg/ui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ui.SetOutput(&out)
	t.Cleanup(func() {
		ui.SetOutput(os.Stdout)
		configFile = ""
	})
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lensdl.yaml")

	out, err := execute(t, "--no-color", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")
	assert.FileExists(t, path)

	_, err = execute(t, "--no-color", "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "--no-color", "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigValidateSplitsDirectoryPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lensdl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory_pattern: \"{category}/{title:?[/]/}\"\n"), 0644))

	out, err := execute(t, "--no-color", "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory_pattern: \"{category}/{title\"\n"), 0644))
	_, err = execute(t, "--no-color", "config", "validate", "--config", path)
	assert.ErrorContains(t, err, "invalid output template")
}

func TestConfigValidateRejectsBadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lensdl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  file_name_pattern: \"{id\"\n"), 0644))

	_, err := execute(t, "--no-color", "config", "validate", "--config", path)
	assert.ErrorContains(t, err, "invalid output template")
}
