package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyLLMProvider, "anthropic"))
	require.NoError(t, store.Set(KeyMaxBlocks, 8))
	require.NoError(t, store.Set("edit.auto_confirm", false))

	assert.Equal(t, "anthropic", store.GetString(KeyLLMProvider))
	assert.Equal(t, 8, store.GetInt(KeyMaxBlocks))
	assert.False(t, store.GetBool("edit.auto_confirm"))
}

func TestConfigStore_Get_Missing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyLLMModel, "claude-3-5-sonnet-latest"))
	require.NoError(t, store.Set(KeyMaxBlocks, 5))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", reloaded.GetString(KeyLLMModel))
	assert.Equal(t, 5, reloaded.GetInt(KeyMaxBlocks))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyLLMProvider, "openai"))
	require.NoError(t, store.Set(KeyLLMModel, "gpt-4o"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), `provider = 'openai'`)
}

func TestConfigStore_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}
