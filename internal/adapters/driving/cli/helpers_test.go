package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/storage/memory"
	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/services"
)

// setupTestServices wires the command tree to real services over an
// in-memory store, returning the store and a cleanup that restores the
// previous wiring.
func setupTestServices(t *testing.T) (*memory.DocumentStore, func()) {
	t.Helper()

	oldDocument := documentService
	oldEdit := editService
	oldRetrieval := retrievalService
	oldWorkflow := workflowService
	oldOutline := outlineProvider
	oldConfig := configStore

	store := memory.NewDocumentStore()
	outlines := memory.NewOutlineStore()
	documentService = services.NewDocumentService(store)
	editService = services.NewEngine(store)
	retrievalService = services.NewRetrievalService(store, nil, outlines)
	workflowService = nil
	outlineProvider = outlines
	configStore = nil

	return store, func() {
		documentService = oldDocument
		editService = oldEdit
		retrievalService = oldRetrieval
		workflowService = oldWorkflow
		outlineProvider = oldOutline
		configStore = oldConfig
	}
}

// seedDocument creates a two-block test document through the service.
func seedDocument(t *testing.T, id string) *domain.Document {
	t.Helper()

	doc, err := documentService.Create(context.Background(), id, "Test Scene", []domain.NewBlockSpec{
		{Type: domain.BlockParagraph, Text: "The cat walked quickly."},
		{Type: domain.BlockParagraph, Text: `She said, "Hello."`},
	})
	require.NoError(t, err)
	return doc
}
