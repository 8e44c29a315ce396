package services

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/inkwell-labs/inkwell-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService creates and reads documents. Once a document exists,
// the batch engine is the only mutation path.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a document service over the given store.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// Create builds a document from block specs, computing every block
// hash and the initial base version.
func (s *DocumentService) Create(ctx context.Context, id, title string, specs []domain.NewBlockSpec) (*domain.Document, error) {
	if id == "" {
		id = domain.NewBlockID()
	}

	blocks := make([]domain.Block, 0, len(specs))
	for i, spec := range specs {
		if !spec.Type.Valid() {
			return nil, fmt.Errorf("block %d: %w: unknown type %q", i, domain.ErrInvalidOperation, spec.Type)
		}
		if spec.Type == domain.BlockHeading && (spec.Level < 1 || spec.Level > 6) {
			return nil, fmt.Errorf("block %d: %w: heading level %d outside 1..6", i, domain.ErrInvalidOperation, spec.Level)
		}
		if spec.Type == domain.BlockHeading {
			blocks = append(blocks, domain.NewHeading(spec.Level, spec.Text))
		} else {
			blocks = append(blocks, domain.NewParagraph(spec.Text))
		}
	}

	doc := &domain.Document{
		ID:           id,
		Title:        title,
		Blocks:       blocks,
		LastModified: time.Now(),
	}
	doc.Reversion()

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Created document %s (%d blocks, version %.12s)", doc.ID, len(blocks), doc.BaseVersion)
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.store.Get(ctx, id)
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.List(ctx)
}
