package driving

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// DocumentService creates and reads documents. Mutation of existing
// documents goes through EditService only.
type DocumentService interface {
	// Create builds a document from block specs, computing block
	// hashes and the initial base version.
	Create(ctx context.Context, id, title string, blocks []domain.NewBlockSpec) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)
}
