package domain

import "fmt"

// OpKind discriminates the operation variants. The set is closed;
// Validate performs the exhaustive check so an unknown kind is rejected
// at batch boundaries rather than surfacing mid-apply.
type OpKind string

const (
	// OpReplace replaces a [start,end) rune range of a block's text.
	OpReplace OpKind = "replace"

	// OpInsert inserts a new block adjacent to a reference block.
	OpInsert OpKind = "insert"

	// OpDelete removes a block by ID.
	OpDelete OpKind = "delete"
)

// NewBlockSpec describes a block to be created by an insert operation.
// The engine assigns the ID and computes the hash.
type NewBlockSpec struct {
	// Type is the block variant to create.
	Type BlockType `json:"type"`

	// Level is the heading level (1..6), required for headings.
	Level int `json:"level,omitempty"`

	// Text is the initial content.
	Text string `json:"text"`
}

// Operation is one atomic edit against a single block. Exactly one
// variant's fields are meaningful, selected by Kind; the wire shape is
// the JSON documented on DocEditBatch.
type Operation struct {
	// Kind selects the variant.
	Kind OpKind `json:"kind"`

	// BlockID is the target block for replace and delete.
	BlockID string `json:"blockId,omitempty"`

	// ExpectedHash is the block hash the proposer believed was current.
	// Checked against pre-batch state for replace and delete.
	ExpectedHash string `json:"expectedHash,omitempty"`

	// Start and End delimit the replaced rune range for replace.
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`

	// Text is the replacement text for replace.
	Text string `json:"text,omitempty"`

	// AfterBlockID anchors an insert after the named block.
	// BeforeBlockID anchors before it. At most one may be set; with
	// neither set the new block is appended.
	AfterBlockID  string `json:"afterBlockId,omitempty"`
	BeforeBlockID string `json:"beforeBlockId,omitempty"`

	// Block describes the block created by insert.
	Block *NewBlockSpec `json:"block,omitempty"`
}

// Validate checks structural well-formedness of the operation. It does
// not consult document state; stale-hash and bounds checks happen in
// the engine against the live document.
func (op Operation) Validate() error {
	switch op.Kind {
	case OpReplace:
		if op.BlockID == "" {
			return fmt.Errorf("%w: replace requires blockId", ErrInvalidOperation)
		}
		if op.ExpectedHash == "" {
			return fmt.Errorf("%w: replace requires expectedHash", ErrInvalidOperation)
		}
		if op.Start < 0 || op.End < op.Start {
			return fmt.Errorf("%w: replace range [%d,%d)", ErrRangeOutOfBounds, op.Start, op.End)
		}
		return nil
	case OpInsert:
		if op.Block == nil {
			return fmt.Errorf("%w: insert requires a block spec", ErrInvalidOperation)
		}
		if !op.Block.Type.Valid() {
			return fmt.Errorf("%w: unknown block type %q", ErrInvalidOperation, op.Block.Type)
		}
		if op.Block.Type == BlockHeading && (op.Block.Level < 1 || op.Block.Level > 6) {
			return fmt.Errorf("%w: heading level %d outside 1..6", ErrInvalidOperation, op.Block.Level)
		}
		if op.AfterBlockID != "" && op.BeforeBlockID != "" {
			return fmt.Errorf("%w: insert anchors both before and after", ErrInvalidOperation)
		}
		return nil
	case OpDelete:
		if op.BlockID == "" {
			return fmt.Errorf("%w: delete requires blockId", ErrInvalidOperation)
		}
		if op.ExpectedHash == "" {
			return fmt.Errorf("%w: delete requires expectedHash", ErrInvalidOperation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, op.Kind)
	}
}

// DocEditBatch is an ordered list of operations scoped to one document,
// carrying the base version the proposer observed. A batch is atomic:
// either every operation applies, or none do.
//
// Wire shape (JSON):
//
//	{ "docId": "...", "baseVersion": "...",
//	  "operations": [
//	    {"kind":"replace","blockId":"...","expectedHash":"...","start":0,"end":5,"text":"..."},
//	    {"kind":"insert","afterBlockId":"...","block":{"type":"paragraph","text":"..."}},
//	    {"kind":"delete","blockId":"...","expectedHash":"..."} ],
//	  "notes": "...", "simulate": false }
type DocEditBatch struct {
	// DocID is the target document.
	DocID string `json:"docId"`

	// BaseVersion is the document version the proposer observed.
	BaseVersion string `json:"baseVersion"`

	// Operations are applied strictly in order.
	Operations []Operation `json:"operations"`

	// Notes is optional human-readable context for the batch.
	Notes string `json:"notes,omitempty"`

	// Simulate marks the batch as preview-only. The engine refuses to
	// apply a batch carrying this flag.
	Simulate bool `json:"simulate,omitempty"`
}

// Validate checks structural well-formedness of the whole batch.
func (b DocEditBatch) Validate() error {
	if b.DocID == "" {
		return fmt.Errorf("%w: batch missing docId", ErrInvalidOperation)
	}
	if b.BaseVersion == "" {
		return fmt.Errorf("%w: batch missing baseVersion", ErrInvalidOperation)
	}
	for i, op := range b.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// ChangeKind classifies how a block was affected by a batch.
type ChangeKind string

const (
	ChangeModified ChangeKind = "modified"
	ChangeInserted ChangeKind = "inserted"
	ChangeDeleted  ChangeKind = "deleted"
)

// BlockChange records the effect of a batch on one block.
type BlockChange struct {
	// BlockID is the affected block.
	BlockID string `json:"blockId"`

	// Kind is how the block changed.
	Kind ChangeKind `json:"kind"`

	// OldText is the pre-batch text (empty for inserts).
	OldText string `json:"oldText,omitempty"`

	// NewText is the post-batch text (empty for deletes).
	NewText string `json:"newText,omitempty"`

	// NewHash is the post-batch content hash (empty for deletes).
	NewHash string `json:"newHash,omitempty"`
}

// EditStats summarises the effect of a batch.
type EditStats struct {
	// BlocksScanned is the pre-batch block count.
	BlocksScanned int `json:"blocksScanned"`

	// BlocksEdited counts blocks modified, inserted, or deleted.
	BlocksEdited int `json:"blocksEdited"`

	// Operations is the number of operations in the batch.
	Operations int `json:"operations"`

	// CharsAdded and CharsRemoved are rune deltas across all changes.
	CharsAdded   int `json:"charsAdded"`
	CharsRemoved int `json:"charsRemoved"`
}

// SimulateResult is the outcome of a dry-run batch.
type SimulateResult struct {
	// DiffMarkup is a displayable block-level diff with inserted and
	// removed spans.
	DiffMarkup string `json:"diffMarkup"`

	// ChangedBlocks lists every affected block, ordered by when the
	// batch first touched it.
	ChangedBlocks []BlockChange `json:"changedBlocks"`

	// Stats summarises the batch.
	Stats EditStats `json:"stats"`

	// NewVersion is the version the document would advance to.
	NewVersion string `json:"newVersion"`
}

// ApplyResult is the outcome of a committed batch.
type ApplyResult struct {
	// NewVersion is the document's version after the commit.
	NewVersion string `json:"newVersion"`

	// Stats summarises the batch.
	Stats EditStats `json:"stats"`
}
