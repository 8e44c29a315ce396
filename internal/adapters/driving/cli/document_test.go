package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

func TestDocCmd_Use(t *testing.T) {
	assert.Equal(t, "doc", docCmd.Use)
	assert.Equal(t, "create [doc-id]", docCreateCmd.Use)
	assert.Equal(t, "show [doc-id]", docShowCmd.Use)
	assert.Equal(t, "list", docListCmd.Use)
}

func TestDocCreateCmd_FromStdin(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("# Chapter One\n\nIt began at dusk.\n\nThe rain had stopped."))
	rootCmd.SetArgs([]string{"doc", "create", "scene-1", "--title", "Opening"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		docCreateTitle = ""
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Created document scene-1 (3 blocks)")
	assert.Contains(t, buf.String(), "Base version:")
}

func TestDocCreateCmd_EmptyInput(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader("   \n\n  "))
	rootCmd.SetArgs([]string{"doc", "create", "scene-x"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no blocks")
}

func TestDocCreateCmd_ServiceNotConfigured(t *testing.T) {
	oldService := documentService
	documentService = nil
	defer func() { documentService = oldService }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader("text"))
	rootCmd.SetArgs([]string{"doc", "create"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocShowCmd_PrintsBlocksAndHashes(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	doc := seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"doc", "show", "scene-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Document: scene-1")
	assert.Contains(t, out, doc.BaseVersion)
	assert.Contains(t, out, "The cat walked quickly.")
	assert.Contains(t, out, doc.Blocks[0].ID)
	// Abbreviated hash by default.
	assert.Contains(t, out, doc.Blocks[0].Hash[:12])
}

func TestDocShowCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	seedDocument(t, "scene-1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"doc", "show", "--json", "scene-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		docShowJSON = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"baseVersion\"")
	assert.Contains(t, buf.String(), "\"blocks\"")
}

func TestDocShowCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"doc", "show", "missing"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestDocListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"doc", "list"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents.")
}

func TestDocListCmd_ShowsDocuments(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	seedDocument(t, "scene-1")
	seedDocument(t, "scene-2")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"doc", "list"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scene-1")
	assert.Contains(t, buf.String(), "scene-2")
	assert.Contains(t, buf.String(), "Total: 2 documents")
}

func TestSplitBlocks_HeadingsAndParagraphs(t *testing.T) {
	specs := splitBlocks("## Part Two\n\nFirst paragraph.\n\n\n\nSecond paragraph.")

	require.Len(t, specs, 3)
	assert.Equal(t, domain.BlockHeading, specs[0].Type)
	assert.Equal(t, 2, specs[0].Level)
	assert.Equal(t, "Part Two", specs[0].Text)
	assert.Equal(t, domain.BlockParagraph, specs[1].Type)
	assert.Equal(t, "First paragraph.", specs[1].Text)
	assert.Equal(t, "Second paragraph.", specs[2].Text)
}

func TestSplitBlocks_CRLF(t *testing.T) {
	specs := splitBlocks("One.\r\n\r\nTwo.")
	require.Len(t, specs, 2)
	assert.Equal(t, "One.", specs[0].Text)
	assert.Equal(t, "Two.", specs[1].Text)
}
