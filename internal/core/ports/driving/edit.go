package driving

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// EditService is the correctness core: the sole mutation entry point
// for documents. Both methods share one validation path; only ApplyOps
// commits.
type EditService interface {
	// SimulateOps validates the batch and computes the resulting diff
	// and statistics without mutating anything. Safe to call freely
	// and concurrently.
	SimulateOps(ctx context.Context, batch domain.DocEditBatch) (*domain.SimulateResult, error)

	// ApplyOps validates the batch and, on success, commits the new
	// block sequence and advances the document version. Atomic: a
	// failing batch commits nothing.
	ApplyOps(ctx context.Context, batch domain.DocEditBatch) (*domain.ApplyResult, error)
}
