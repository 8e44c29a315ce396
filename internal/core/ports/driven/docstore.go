package driven

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// DocumentStore owns the authoritative representation of open
// documents. It is the only mutable shared resource in the core; the
// batch engine is its sole mutation path once a document exists.
type DocumentStore interface {
	// Save stores a new document. Returns domain.ErrAlreadyExists if
	// the ID is taken.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID. Returns domain.ErrDocNotFound
	// if absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// ReplaceBlocks commits a new block sequence, base version, and
	// modification time for a document. Invoked exclusively by the
	// engine after successful validation.
	ReplaceBlocks(ctx context.Context, doc *domain.Document) error

	// List returns all documents, ordered by ID.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document entirely.
	Delete(ctx context.Context, id string) error
}
