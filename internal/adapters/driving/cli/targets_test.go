package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetsCmd_Use(t *testing.T) {
	assert.Equal(t, "targets [doc-id]", targetsCmd.Use)
}

func TestTargetsCmd_DefaultIntentFlag(t *testing.T) {
	flag := targetsCmd.Flags().Lookup("intent")
	require.NotNil(t, flag)
	assert.Equal(t, "reduce-adverbs", flag.DefValue)
}

func TestTargetsCmd_SelectsAdverbBlock(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	doc := seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"targets", "scene-1", "--intent", "reduce-adverbs"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "The cat walked quickly.")
	assert.NotContains(t, out, `She said, "Hello."`)
	assert.Contains(t, out, doc.Blocks[0].ID)
	assert.Contains(t, out, "2 total, 1 matched, 1 returned")
}

func TestTargetsCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"targets", "scene-1", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		targetsJSON = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"baseVersion\"")
	assert.Contains(t, buf.String(), "\"stats\"")
}

func TestTargetsCmd_UnknownIntent(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	seedDocument(t, "scene-1")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"targets", "scene-1", "--intent", "alphabetize"})
	defer func() {
		rootCmd.SetArgs(nil)
		targetsIntent = "reduce-adverbs"
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestTargetsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() { retrievalService = oldService }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"targets", "scene-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
