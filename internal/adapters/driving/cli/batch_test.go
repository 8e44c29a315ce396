package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// batchJSON renders a replace batch in the wire shape.
func batchJSON(t *testing.T, doc *domain.Document) string {
	t.Helper()

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind:         domain.OpReplace,
			BlockID:      doc.Blocks[0].ID,
			ExpectedHash: doc.Blocks[0].Hash,
			Start:        15,
			End:          22,
			Text:         "fast",
		}},
	}
	data, err := json.Marshal(batch)
	require.NoError(t, err)
	return string(data)
}

func TestSimulateCmd_PrintsDiffWithoutMutating(t *testing.T) {
	store, cleanup := setupTestServices(t)
	defer cleanup()
	doc := seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader(batchJSON(t, doc)))
	rootCmd.SetArgs([]string{"simulate"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<del>quickly.</del>")
	assert.Contains(t, out, "<ins>fast.</ins>")
	assert.Contains(t, out, "Would advance to version")

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.BaseVersion, after.BaseVersion)
}

func TestApplyCmd_CommitsBatch(t *testing.T) {
	store, cleanup := setupTestServices(t)
	defer cleanup()
	doc := seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader(batchJSON(t, doc)))
	rootCmd.SetArgs([]string{"apply"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Batch applied.")
	assert.Contains(t, buf.String(), "New version:")

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "The cat walked fast.", after.Blocks[0].Text)
}

func TestApplyCmd_StaleVersionReportsCodeAndHint(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	doc := seedDocument(t, "scene-1")

	// Apply once to advance the version, then replay the stale batch.
	stale := batchJSON(t, doc)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stale))
	rootCmd.SetArgs([]string{"apply"})
	require.NoError(t, rootCmd.Execute())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stale))
	rootCmd.SetArgs([]string{"apply"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STALE_VERSION")
	assert.Contains(t, buf.String(), "re-read it and retry")
}

func TestSimulateCmd_MalformedJSON(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader("{not json"))
	rootCmd.SetArgs([]string{"simulate"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode batch")
}

func TestApplyCmd_ServiceNotConfigured(t *testing.T) {
	oldService := editService
	editService = nil
	defer func() { editService = oldService }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"apply"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
