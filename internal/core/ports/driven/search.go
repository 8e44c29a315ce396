package driven

import "context"

// SearchIndex ranks blocks within a single document by lexical
// relevance. Retrieval only consults it when the regex prefilter leaves
// more candidates than the requested cap.
type SearchIndex interface {
	// SearchInDocument returns blocks of the document matching the
	// query, ordered by descending score.
	SearchInDocument(ctx context.Context, docID, query string, limit int) ([]BlockHit, error)

	// Close releases resources.
	Close() error
}

// BlockHit is a single ranking result.
type BlockHit struct {
	// BlockID is the matched block.
	BlockID string

	// Score is the relevance score (e.g. bm25). Higher is better.
	Score float64
}
