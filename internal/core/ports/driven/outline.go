package driven

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// OutlineProvider supplies story-level context for a document. Optional;
// retrieval attaches whatever it returns as auxiliary context.
type OutlineProvider interface {
	// GetOutline returns the outline for a document, or (nil, nil)
	// when none is recorded.
	GetOutline(ctx context.Context, docID string) (*domain.Outline, error)

	// SetOutline records or replaces the outline for a document.
	SetOutline(ctx context.Context, docID string, outline *domain.Outline) error
}
