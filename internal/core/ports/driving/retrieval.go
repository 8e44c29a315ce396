package driving

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// RetrievalService selects candidate blocks for an edit intent, keeping
// the working set sent to an external agent small and relevant.
type RetrievalService interface {
	// FindTargets runs the prefilter/rank/truncate pipeline for a
	// document and intent. customQuery overrides the intent's canned
	// ranking query; maxBlocks <= 0 selects the default cap.
	FindTargets(ctx context.Context, docID string, intent domain.EditIntent, customQuery string, maxBlocks int) (*domain.RetrievalResult, error)
}
