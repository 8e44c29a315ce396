package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/inkwell-labs/inkwell-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultMaxBlocks caps the working set sent to an agent when the
// caller does not specify one.
const DefaultMaxBlocks = 5

// RetrievalService selects candidate blocks for an edit intent: regex
// prefilter first, then ranking through the search index only when the
// prefilter still leaves too many candidates. The index and outline
// provider are optional.
type RetrievalService struct {
	store   driven.DocumentStore
	index   driven.SearchIndex
	outline driven.OutlineProvider
}

// NewRetrievalService creates a retrieval service. index and outline
// may be nil; selection degrades to document order and results carry
// no outline.
func NewRetrievalService(store driven.DocumentStore, index driven.SearchIndex, outline driven.OutlineProvider) *RetrievalService {
	return &RetrievalService{store: store, index: index, outline: outline}
}

// FindTargets runs the retrieval pipeline for a document and intent.
func (s *RetrievalService) FindTargets(
	ctx context.Context, docID string, intent domain.EditIntent, customQuery string, maxBlocks int,
) (*domain.RetrievalResult, error) {
	logger.Section("Find Targets")
	logger.Debug("Doc: %s, intent: %s, maxBlocks: %d", docID, intent, maxBlocks)

	if !intent.Valid() {
		return nil, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidOperation, intent)
	}
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlocks
	}

	doc, err := s.store.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	result := &domain.RetrievalResult{
		DocID:       docID,
		BaseVersion: doc.BaseVersion,
		Intent:      intent,
		Stats:       domain.RetrievalStats{Total: len(doc.Blocks)},
	}

	// Empty document is a coded note, not an error.
	if len(doc.Blocks) == 0 {
		result.Notes = append(result.Notes,
			fmt.Sprintf("%s: document has no blocks; nothing to target", domain.CodeEmptyDocument))
		logger.Info("Document %s is empty", docID)
		return result, nil
	}
	result.Notes = append(result.Notes, fmt.Sprintf("%d blocks in document", len(doc.Blocks)))

	// Stage 1: cheap intent-specific prefilter.
	candidates := doc.Blocks
	if pattern := intent.Pattern(); pattern != nil {
		matched := make([]domain.Block, 0, len(candidates))
		for _, blk := range candidates {
			if pattern.MatchString(blk.Text) {
				matched = append(matched, blk)
			}
		}
		candidates = matched
		result.Notes = append(result.Notes,
			fmt.Sprintf("%d blocks matched the %s prefilter", len(candidates), intent))
		logger.Debug("Prefilter %s: %d of %d blocks", intent, len(candidates), len(doc.Blocks))
	} else {
		result.Notes = append(result.Notes, "intent has no prefilter; all blocks are candidates")
	}
	result.Stats.Matched = len(candidates)

	// Stage 2: rank only when the prefilter left too many candidates.
	// The search index is comparatively expensive.
	if len(candidates) > maxBlocks {
		candidates = s.rank(ctx, docID, intent, customQuery, candidates, result)
		candidates = candidates[:maxBlocks]
		result.Notes = append(result.Notes,
			fmt.Sprintf("truncated to %d blocks", maxBlocks))
	}

	result.Blocks = make([]domain.TargetBlock, len(candidates))
	for i, blk := range candidates {
		result.Blocks[i] = domain.TargetBlock{ID: blk.ID, Text: blk.Text, Hash: blk.Hash}
	}
	result.Stats.Returned = len(result.Blocks)

	// Stage 3: auxiliary story context, never part of the block set.
	if s.outline != nil {
		outline, err := s.outline.GetOutline(ctx, docID)
		if err != nil {
			logger.Warn("Outline lookup failed for %s: %v", docID, err)
		} else if !outline.Empty() {
			result.Outline = outline
			result.Notes = append(result.Notes, "outline context attached")
		}
	}

	logger.Info("Targets for %s: %d/%d/%d (total/matched/returned)",
		docID, result.Stats.Total, result.Stats.Matched, result.Stats.Returned)

	return result, nil
}

// rank orders candidates by search index score, descending. Blocks the
// index did not score default to zero; ties keep document order so
// repeated calls are stable. With no index configured the candidates
// pass through in document order.
func (s *RetrievalService) rank(
	ctx context.Context, docID string, intent domain.EditIntent, customQuery string,
	candidates []domain.Block, result *domain.RetrievalResult,
) []domain.Block {
	if s.index == nil {
		result.Notes = append(result.Notes, "no search index; keeping document order")
		return candidates
	}

	query := customQuery
	if query == "" {
		query = intent.RankQuery()
	}
	if query == "" {
		result.Notes = append(result.Notes, "no ranking query; keeping document order")
		return candidates
	}

	hits, err := s.index.SearchInDocument(ctx, docID, query, len(candidates))
	if err != nil {
		logger.Warn("Ranking failed, keeping document order: %v", err)
		result.Notes = append(result.Notes, "ranking unavailable; keeping document order")
		return candidates
	}

	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		scores[hit.BlockID] = hit.Score
	}

	ranked := make([]domain.Block, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})

	result.Notes = append(result.Notes,
		fmt.Sprintf("ranked %d candidates with query %q", len(candidates), query))
	logger.Debug("Ranked %d candidates, %d scored by index", len(candidates), len(hits))

	return ranked
}
