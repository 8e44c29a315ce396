package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/inkwell-labs/inkwell-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.EditService = (*Engine)(nil)

// Engine validates and applies edit batches. SimulateOps and ApplyOps
// share one validation path; only ApplyOps commits. The engine never
// recovers from a validation failure - it reports a structured code and
// leaves state untouched.
type Engine struct {
	store driven.DocumentStore
}

// NewEngine creates a batch engine over the given store.
func NewEngine(store driven.DocumentStore) *Engine {
	return &Engine{store: store}
}

// staged is the outcome of validating a batch against a working copy.
type staged struct {
	working *domain.Document
	changes []domain.BlockChange
	stats   domain.EditStats
}

// SimulateOps validates the batch and computes the resulting state,
// diff, and statistics without mutating the store. The working copy is
// discarded; callers may simulate freely and concurrently.
func (e *Engine) SimulateOps(ctx context.Context, batch domain.DocEditBatch) (*domain.SimulateResult, error) {
	logger.Section("Simulate Batch")
	logger.Debug("Doc: %s, ops: %d", batch.DocID, len(batch.Operations))

	st, err := e.stage(ctx, batch)
	if err != nil {
		logger.Warn("Simulation rejected: %v", err)
		return nil, err
	}

	return &domain.SimulateResult{
		DiffMarkup:    RenderDiff(st.changes),
		ChangedBlocks: st.changes,
		Stats:         st.stats,
		NewVersion:    st.working.BaseVersion,
	}, nil
}

// ApplyOps validates the batch and, on success, commits the working
// copy as the new authoritative state, advancing the document version.
// Atomic: a failing batch commits nothing.
func (e *Engine) ApplyOps(ctx context.Context, batch domain.DocEditBatch) (*domain.ApplyResult, error) {
	logger.Section("Apply Batch")
	logger.Debug("Doc: %s, ops: %d", batch.DocID, len(batch.Operations))

	if batch.Simulate {
		return nil, domain.NewBatchError(domain.CodeInvalidOperation, "",
			fmt.Errorf("%w: batch is marked simulate-only", domain.ErrInvalidOperation))
	}

	st, err := e.stage(ctx, batch)
	if err != nil {
		logger.Warn("Apply rejected: %v", err)
		return nil, err
	}

	st.working.LastModified = time.Now()
	if err := e.store.ReplaceBlocks(ctx, st.working); err != nil {
		return nil, fmt.Errorf("commit blocks: %w", err)
	}

	logger.Info("Applied %d ops to %s, new version %.12s",
		st.stats.Operations, batch.DocID, st.working.BaseVersion)

	return &domain.ApplyResult{
		NewVersion: st.working.BaseVersion,
		Stats:      st.stats,
	}, nil
}

// stage runs the full validation algorithm and materialises the batch
// against a working copy of the document. The store is never mutated.
//
// Order matters: document lookup, then whole-document version check,
// then per-block existence and hash checks, then ordered application
// with range checks. The per-block checks run against pre-batch state
// (what the proposer saw); application offsets address the working
// copy, so multi-op batches compose.
func (e *Engine) stage(ctx context.Context, batch domain.DocEditBatch) (*staged, error) {
	doc, err := e.store.Get(ctx, batch.DocID)
	if err != nil {
		if errors.Is(err, domain.ErrDocNotFound) {
			return nil, domain.NewBatchError(domain.CodeDocNotFound, "", err)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	if err := batch.Validate(); err != nil {
		code := domain.CodeInvalidOperation
		if errors.Is(err, domain.ErrRangeOutOfBounds) {
			code = domain.CodeRangeOutOfBounds
		}
		return nil, domain.NewBatchError(code, "", err)
	}

	if batch.BaseVersion != doc.BaseVersion {
		logger.Debug("Version mismatch: batch=%.12s doc=%.12s", batch.BaseVersion, doc.BaseVersion)
		return nil, domain.NewBatchError(domain.CodeStaleVersion, "",
			fmt.Errorf("%w: document changed since the batch was proposed", domain.ErrStaleVersion))
	}

	// Per-block optimistic checks against pre-batch state.
	for _, op := range batch.Operations {
		if op.Kind == domain.OpInsert {
			continue
		}
		idx := doc.FindBlock(op.BlockID)
		if idx < 0 {
			return nil, domain.NewBatchError(domain.CodeBlockNotFound, op.BlockID, domain.ErrBlockNotFound)
		}
		current := domain.HashText(doc.Blocks[idx].Text)
		if current != op.ExpectedHash {
			logger.Debug("Block %s hash mismatch: expected=%.12s current=%.12s",
				op.BlockID, op.ExpectedHash, current)
			return nil, domain.NewBatchError(domain.CodeStaleBlock, op.BlockID, domain.ErrStaleBlock)
		}
	}

	working := doc.Clone()
	tracker := newChangeTracker(doc)

	for i, op := range batch.Operations {
		if err := applyOne(working, op, tracker); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}

	working.Reversion()

	changes := tracker.list()
	stats := domain.EditStats{
		BlocksScanned: len(doc.Blocks),
		BlocksEdited:  len(changes),
		Operations:    len(batch.Operations),
	}
	for _, c := range changes {
		old, neu := len([]rune(c.OldText)), len([]rune(c.NewText))
		if neu > old {
			stats.CharsAdded += neu - old
		} else {
			stats.CharsRemoved += old - neu
		}
	}

	logger.Debug("Staged: %d blocks changed, version %.12s -> %.12s",
		len(changes), doc.BaseVersion, working.BaseVersion)

	return &staged{working: working, changes: changes, stats: stats}, nil
}

// applyOne materialises a single operation against the working copy.
func applyOne(working *domain.Document, op domain.Operation, tracker *changeTracker) error {
	switch op.Kind {
	case domain.OpReplace:
		idx := working.FindBlock(op.BlockID)
		if idx < 0 {
			// Deleted by an earlier operation in this batch.
			return domain.NewBatchError(domain.CodeBlockNotFound, op.BlockID, domain.ErrBlockNotFound)
		}
		runes := []rune(working.Blocks[idx].Text)
		if op.Start > len(runes) || op.End > len(runes) {
			return domain.NewBatchError(domain.CodeRangeOutOfBounds, op.BlockID,
				fmt.Errorf("%w: [%d,%d) in text of length %d", domain.ErrRangeOutOfBounds, op.Start, op.End, len(runes)))
		}
		newText := string(runes[:op.Start]) + op.Text + string(runes[op.End:])
		working.Blocks[idx].Text = newText
		working.Blocks[idx].Rehash()
		tracker.modified(working.Blocks[idx])
		return nil

	case domain.OpInsert:
		blk := newBlockFromSpec(*op.Block)
		pos := len(working.Blocks)
		switch {
		case op.AfterBlockID != "":
			idx := working.FindBlock(op.AfterBlockID)
			if idx < 0 {
				return domain.NewBatchError(domain.CodeBlockNotFound, op.AfterBlockID, domain.ErrBlockNotFound)
			}
			pos = idx + 1
		case op.BeforeBlockID != "":
			idx := working.FindBlock(op.BeforeBlockID)
			if idx < 0 {
				return domain.NewBatchError(domain.CodeBlockNotFound, op.BeforeBlockID, domain.ErrBlockNotFound)
			}
			pos = idx
		}
		working.Blocks = append(working.Blocks, domain.Block{})
		copy(working.Blocks[pos+1:], working.Blocks[pos:])
		working.Blocks[pos] = blk
		tracker.inserted(blk)
		return nil

	case domain.OpDelete:
		idx := working.FindBlock(op.BlockID)
		if idx < 0 {
			return domain.NewBatchError(domain.CodeBlockNotFound, op.BlockID, domain.ErrBlockNotFound)
		}
		working.Blocks = append(working.Blocks[:idx], working.Blocks[idx+1:]...)
		tracker.deleted(op.BlockID)
		return nil

	default:
		// Unreachable: batch.Validate rejects unknown kinds.
		return domain.NewBatchError(domain.CodeInvalidOperation, "",
			fmt.Errorf("%w: kind %q", domain.ErrInvalidOperation, op.Kind))
	}
}

// newBlockFromSpec creates a block with a fresh ID from an insert spec.
func newBlockFromSpec(spec domain.NewBlockSpec) domain.Block {
	if spec.Type == domain.BlockHeading {
		return domain.NewHeading(spec.Level, spec.Text)
	}
	return domain.NewParagraph(spec.Text)
}

// changeTracker folds multiple operations on the same block into one
// BlockChange, preserving the order blocks were first touched.
type changeTracker struct {
	preTexts map[string]string // pre-batch text by block ID
	byID     map[string]*domain.BlockChange
	order    []string
}

func newChangeTracker(pre *domain.Document) *changeTracker {
	texts := make(map[string]string, len(pre.Blocks))
	for i := range pre.Blocks {
		texts[pre.Blocks[i].ID] = pre.Blocks[i].Text
	}
	return &changeTracker{
		preTexts: texts,
		byID:     make(map[string]*domain.BlockChange),
	}
}

func (t *changeTracker) touch(id string) *domain.BlockChange {
	if c, ok := t.byID[id]; ok {
		return c
	}
	c := &domain.BlockChange{BlockID: id}
	t.byID[id] = c
	t.order = append(t.order, id)
	return c
}

func (t *changeTracker) modified(blk domain.Block) {
	c := t.touch(blk.ID)
	if c.Kind == "" {
		c.Kind = domain.ChangeModified
		c.OldText = t.preTexts[blk.ID]
	}
	c.NewText = blk.Text
	c.NewHash = blk.Hash
}

func (t *changeTracker) inserted(blk domain.Block) {
	c := t.touch(blk.ID)
	c.Kind = domain.ChangeInserted
	c.NewText = blk.Text
	c.NewHash = blk.Hash
}

func (t *changeTracker) deleted(id string) {
	c := t.touch(id)
	if c.Kind == domain.ChangeInserted {
		// Inserted and deleted within one batch: net no-op.
		delete(t.byID, id)
		for i, oid := range t.order {
			if oid == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		return
	}
	c.Kind = domain.ChangeDeleted
	c.OldText = t.preTexts[id]
	c.NewText = ""
	c.NewHash = ""
}

// list returns the folded changes in first-touched order.
func (t *changeTracker) list() []domain.BlockChange {
	out := make([]domain.BlockChange, 0, len(t.order))
	for _, id := range t.order {
		if c, ok := t.byID[id]; ok {
			out = append(out, *c)
		}
	}
	return out
}
