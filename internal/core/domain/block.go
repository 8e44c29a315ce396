package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockType distinguishes the kinds of content blocks.
type BlockType string

const (
	// BlockParagraph is a plain prose paragraph.
	BlockParagraph BlockType = "paragraph"

	// BlockHeading is a section heading with a level in 1..6.
	BlockHeading BlockType = "heading"
)

// Valid reports whether the block type is a known variant.
func (t BlockType) Valid() bool {
	return t == BlockParagraph || t == BlockHeading
}

// Block is an atomic, addressable unit of document content.
type Block struct {
	// ID is a stable opaque identifier, unique within a document.
	// Assigned at creation and never reused after deletion.
	ID string `json:"id"`

	// Type is the block variant (paragraph or heading).
	Type BlockType `json:"type"`

	// Level is the heading level (1..6). Zero for paragraphs.
	Level int `json:"level,omitempty"`

	// Text is the UTF-8 content. Leading/trailing whitespace and
	// line-ending style are not significant to identity.
	Text string `json:"text"`

	// Hash is the content hash of the normalised text. It is the
	// optimistic-concurrency token for this block and is recomputed
	// whenever Text changes.
	Hash string `json:"hash"`
}

// Rehash recomputes the block's hash from its current text.
func (b *Block) Rehash() {
	b.Hash = HashText(b.Text)
}

// NewBlockID generates a fresh block identifier.
// Only uniqueness and stability matter; the scheme is opaque to callers.
func NewBlockID() string {
	return uuid.NewString()
}

// NewParagraph creates a paragraph block with a fresh ID and a hash
// consistent with the given text.
func NewParagraph(text string) Block {
	b := Block{ID: NewBlockID(), Type: BlockParagraph, Text: text}
	b.Rehash()
	return b
}

// NewHeading creates a heading block with a fresh ID and a hash
// consistent with the given text. Level must be in 1..6; callers are
// expected to validate before construction.
func NewHeading(level int, text string) Block {
	b := Block{ID: NewBlockID(), Type: BlockHeading, Level: level, Text: text}
	b.Rehash()
	return b
}

// Document is an ordered sequence of blocks plus versioning metadata.
type Document struct {
	// ID is the stable document identifier (e.g. a scene or chapter).
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Blocks is the ordered block list. Order is narrative order and
	// is significant to the document version.
	Blocks []Block `json:"blocks"`

	// BaseVersion is a hash over the normalised concatenation of all
	// block texts in order. It changes if and only if any block's text
	// or the block sequence changes, which makes it the
	// optimistic-concurrency token for the whole document.
	BaseVersion string `json:"baseVersion"`

	// LastModified is updated on every successful apply.
	LastModified time.Time `json:"lastModified"`
}

// Reversion recomputes BaseVersion from the current block sequence.
func (d *Document) Reversion() {
	d.BaseVersion = DocumentHash(d.Blocks)
}

// FindBlock returns the index of the block with the given ID, or -1.
func (d *Document) FindBlock(id string) int {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document. The engine applies batches
// to a clone so that validation failures never touch the original.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Blocks = make([]Block, len(d.Blocks))
	copy(cp.Blocks, d.Blocks)
	return &cp
}
