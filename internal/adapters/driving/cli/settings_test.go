package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/config/file"
)

// setupTestConfig wires a real TOML config store over a temp dir.
func setupTestConfig(t *testing.T) func() {
	t.Helper()

	old := configStore
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store

	return func() { configStore = old }
}

func TestSettingsShowCmd_UnsetKeys(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Config file:")
	assert.Contains(t, out, "llm.provider")
	assert.Contains(t, out, "(not set)")
}

func TestSettingsSetCmd_RoundTrip(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "llm.provider", "anthropic"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Set llm.provider = anthropic")

	buf.Reset()
	rootCmd.SetArgs([]string{"settings", "show"})
	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "anthropic")
}

func TestSettingsSetCmd_IntegerValue(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "set", "edit.max_blocks", "8"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, 8, configStore.GetInt("edit.max_blocks"))
}

func TestSettingsCmd_StoreNotConfigured(t *testing.T) {
	old := configStore
	configStore = nil
	defer func() { configStore = old }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
