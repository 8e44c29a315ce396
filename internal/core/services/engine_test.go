package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/storage/memory"
	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// newTestDoc stores a fresh document with the given paragraph texts and
// returns it along with the backing store and an engine over it.
func newTestDoc(t *testing.T, texts ...string) (*memory.DocumentStore, *Engine, *domain.Document) {
	t.Helper()

	store := memory.NewDocumentStore()
	blocks := make([]domain.Block, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, domain.NewParagraph(text))
	}
	doc := &domain.Document{ID: "doc-1", Title: "Test Scene", Blocks: blocks}
	doc.Reversion()
	require.NoError(t, store.Save(context.Background(), doc))

	return store, NewEngine(store), doc
}

func TestEngine_ApplyOps_ReplaceRange(t *testing.T) {
	store, engine, doc := newTestDoc(t,
		"The cat walked quickly.",
		`She said, "Hello."`,
	)
	target := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind:         domain.OpReplace,
			BlockID:      target.ID,
			ExpectedHash: target.Hash,
			Start:        15,
			End:          22,
			Text:         "fast",
		}},
	}

	result, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)
	assert.NotEqual(t, doc.BaseVersion, result.NewVersion)
	assert.Equal(t, 1, result.Stats.BlocksEdited)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "The cat walked fast.", after.Blocks[0].Text)
	assert.Equal(t, domain.HashText("The cat walked fast."), after.Blocks[0].Hash)
	assert.Equal(t, result.NewVersion, after.BaseVersion)
	// The untouched block is byte-identical.
	assert.Equal(t, doc.Blocks[1], after.Blocks[1])
}

func TestEngine_ApplyOps_DocNotFound(t *testing.T) {
	_, engine, _ := newTestDoc(t, "text")

	_, err := engine.ApplyOps(context.Background(), domain.DocEditBatch{
		DocID:       "missing",
		BaseVersion: "whatever",
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeDocNotFound, domain.CodeOf(err))
}

func TestEngine_ApplyOps_StaleVersion(t *testing.T) {
	store, engine, doc := newTestDoc(t, "Original text here.")
	target := doc.Blocks[0]

	// Batch proposed against V1.
	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 0, End: 8, Text: "Changed",
		}},
	}

	// Mutate the document out of band to V2.
	_, err := engine.ApplyOps(context.Background(), domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 0, End: 0, Text: "Prefix. ",
		}},
	})
	require.NoError(t, err)
	v2, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)

	// The V1 batch must fail and leave the document at V2.
	_, err = engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeStaleVersion, domain.CodeOf(err))
	assert.ErrorIs(t, err, domain.ErrStaleVersion)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.BaseVersion, after.BaseVersion)
	assert.Equal(t, v2.Blocks, after.Blocks)
}

func TestEngine_ApplyOps_StaleBlock(t *testing.T) {
	_, engine, doc := newTestDoc(t, "Some paragraph.")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: doc.Blocks[0].ID,
			ExpectedHash: domain.HashText("something else entirely"),
			Start:        0, End: 4, Text: "Any",
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeStaleBlock, domain.CodeOf(err))
}

func TestEngine_ApplyOps_BlockNotFound(t *testing.T) {
	_, engine, doc := newTestDoc(t, "Some paragraph.")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpDelete, BlockID: "no-such-block", ExpectedHash: "x",
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeBlockNotFound, domain.CodeOf(err))
}

func TestEngine_ApplyOps_RangeOutOfBounds(t *testing.T) {
	store, engine, doc := newTestDoc(t, "Short.")
	target := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 0, End: 100, Text: "x",
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeRangeOutOfBounds, domain.CodeOf(err))

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.BaseVersion, after.BaseVersion)
}

func TestEngine_ApplyOps_RuneOffsets(t *testing.T) {
	store, engine, doc := newTestDoc(t, "héllo wörld")
	target := doc.Blocks[0]

	// [6,11) in runes covers "wörld"; byte offsets would split the ö.
	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 6, End: 11, Text: "monde",
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "héllo monde", after.Blocks[0].Text)
}

func TestEngine_ApplyOps_Atomic(t *testing.T) {
	store, engine, doc := newTestDoc(t, "First block.", "Second block.")
	first, second := doc.Blocks[0], doc.Blocks[1]

	// First op is valid; second fails its bounds check. Nothing commits.
	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{
			{Kind: domain.OpReplace, BlockID: first.ID, ExpectedHash: first.Hash,
				Start: 0, End: 5, Text: "1st"},
			{Kind: domain.OpReplace, BlockID: second.ID, ExpectedHash: second.Hash,
				Start: 0, End: 999, Text: "2nd"},
		},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.BaseVersion, after.BaseVersion)
	assert.Equal(t, "First block.", after.Blocks[0].Text)
	assert.Equal(t, "Second block.", after.Blocks[1].Text)
}

func TestEngine_ApplyOps_InsertAfter(t *testing.T) {
	store, engine, doc := newTestDoc(t, "One.", "Three.")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind:         domain.OpInsert,
			AfterBlockID: doc.Blocks[0].ID,
			Block:        &domain.NewBlockSpec{Type: domain.BlockParagraph, Text: "Two."},
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, after.Blocks, 3)
	assert.Equal(t, "Two.", after.Blocks[1].Text)
	assert.NotEmpty(t, after.Blocks[1].ID)
	assert.Equal(t, domain.HashText("Two."), after.Blocks[1].Hash)
}

func TestEngine_ApplyOps_InsertBefore(t *testing.T) {
	store, engine, doc := newTestDoc(t, "Body.")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind:          domain.OpInsert,
			BeforeBlockID: doc.Blocks[0].ID,
			Block:         &domain.NewBlockSpec{Type: domain.BlockHeading, Level: 2, Text: "Chapter"},
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, after.Blocks, 2)
	assert.Equal(t, domain.BlockHeading, after.Blocks[0].Type)
	assert.Equal(t, 2, after.Blocks[0].Level)
	assert.Equal(t, "Chapter", after.Blocks[0].Text)
}

func TestEngine_ApplyOps_InsertAppendsWithoutAnchor(t *testing.T) {
	store, engine, doc := newTestDoc(t, "Start.")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind:  domain.OpInsert,
			Block: &domain.NewBlockSpec{Type: domain.BlockParagraph, Text: "End."},
		}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, after.Blocks, 2)
	assert.Equal(t, "End.", after.Blocks[1].Text)
}

func TestEngine_ApplyOps_DeleteThenStaleReference(t *testing.T) {
	store, engine, doc := newTestDoc(t, "Keep me.", "Delete me.")
	victim := doc.Blocks[1]

	del := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpDelete, BlockID: victim.ID, ExpectedHash: victim.Hash,
		}},
	}
	_, err := engine.ApplyOps(context.Background(), del)
	require.NoError(t, err)

	// A second batch still referencing the deleted block by its old ID
	// and hash must fail with BLOCK_NOT_FOUND.
	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)

	stale := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: after.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: victim.ID, ExpectedHash: victim.Hash,
			Start: 0, End: 1, Text: "X",
		}},
	}
	_, err = engine.ApplyOps(context.Background(), stale)
	require.Error(t, err)
	assert.Equal(t, domain.CodeBlockNotFound, domain.CodeOf(err))
}

func TestEngine_ApplyOps_MultiOpBatchComposes(t *testing.T) {
	store, engine, doc := newTestDoc(t, "alpha beta")
	target := doc.Blocks[0]

	// Second op's offsets address the text produced by the first.
	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{
			{Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
				Start: 0, End: 5, Text: "gamma"},
			{Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
				Start: 6, End: 10, Text: "delta"},
		},
	}

	result, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.BlocksEdited)
	assert.Equal(t, 2, result.Stats.Operations)

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "gamma delta", after.Blocks[0].Text)
}

func TestEngine_ApplyOps_UnknownKindRejected(t *testing.T) {
	_, engine, doc := newTestDoc(t, "text")

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations:  []domain.Operation{{Kind: "merge"}},
	}

	_, err := engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidOperation, domain.CodeOf(err))
}

func TestEngine_SimulateOps_NeverMutates(t *testing.T) {
	store, engine, doc := newTestDoc(t, "The cat walked quickly.")
	target := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 15, End: 22, Text: "fast",
		}},
	}

	for i := 0; i < 3; i++ {
		result, err := engine.SimulateOps(context.Background(), batch)
		require.NoError(t, err)
		assert.Contains(t, result.DiffMarkup, "<del>quickly.</del>")
		assert.Contains(t, result.DiffMarkup, "<ins>fast.</ins>")
	}

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.BaseVersion, after.BaseVersion)
	assert.Equal(t, doc.Blocks, after.Blocks)
}

func TestEngine_SimulateOps_ReportsChangesAndStats(t *testing.T) {
	_, engine, doc := newTestDoc(t, "One.", "Two.")
	first := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{
			{Kind: domain.OpReplace, BlockID: first.ID, ExpectedHash: first.Hash,
				Start: 0, End: 3, Text: "Uno"},
			{Kind: domain.OpInsert, AfterBlockID: first.ID,
				Block: &domain.NewBlockSpec{Type: domain.BlockParagraph, Text: "Interlude."}},
		},
	}

	result, err := engine.SimulateOps(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, result.ChangedBlocks, 2)
	assert.Equal(t, domain.ChangeModified, result.ChangedBlocks[0].Kind)
	assert.Equal(t, "One.", result.ChangedBlocks[0].OldText)
	assert.Equal(t, "Uno.", result.ChangedBlocks[0].NewText)
	assert.Equal(t, domain.ChangeInserted, result.ChangedBlocks[1].Kind)

	assert.Equal(t, 2, result.Stats.BlocksScanned)
	assert.Equal(t, 2, result.Stats.BlocksEdited)
	assert.Equal(t, 2, result.Stats.Operations)
	assert.NotEqual(t, doc.BaseVersion, result.NewVersion)
}

func TestEngine_SimulateOps_SameVersionAsApply(t *testing.T) {
	_, engine, doc := newTestDoc(t, "Same in both paths.")
	target := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 0, End: 4, Text: "Equal",
		}},
	}

	sim, err := engine.SimulateOps(context.Background(), batch)
	require.NoError(t, err)
	applied, err := engine.ApplyOps(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, sim.NewVersion, applied.NewVersion)
}

func TestEngine_ApplyOps_RefusesSimulateOnlyBatch(t *testing.T) {
	store, engine, doc := newTestDoc(t, "The cat walked quickly.")
	target := doc.Blocks[0]

	batch := domain.DocEditBatch{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		Simulate:    true,
		Operations: []domain.Operation{{
			Kind: domain.OpReplace, BlockID: target.ID, ExpectedHash: target.Hash,
			Start: 15, End: 22, Text: "fast",
		}},
	}

	// Preview-only batches still simulate normally.
	_, err := engine.SimulateOps(context.Background(), batch)
	require.NoError(t, err)

	_, err = engine.ApplyOps(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidOperation, domain.CodeOf(err))

	after, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.BaseVersion, after.BaseVersion)
}
