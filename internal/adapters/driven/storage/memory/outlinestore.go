package memory

import (
	"context"
	"sync"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure OutlineStore implements the interface.
var _ driven.OutlineProvider = (*OutlineStore)(nil)

// OutlineStore is an in-memory implementation of driven.OutlineProvider.
type OutlineStore struct {
	mu       sync.RWMutex
	outlines map[string]domain.Outline
}

// NewOutlineStore creates a new in-memory outline store.
func NewOutlineStore() *OutlineStore {
	return &OutlineStore{
		outlines: make(map[string]domain.Outline),
	}
}

// GetOutline returns the outline for a document, or nil when none is
// recorded. Absence is not an error.
func (s *OutlineStore) GetOutline(_ context.Context, docID string) (*domain.Outline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.outlines[docID]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

// SetOutline records or replaces the outline for a document.
func (s *OutlineStore) SetOutline(_ context.Context, docID string, outline *domain.Outline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outline == nil {
		delete(s.outlines, docID)
		return nil
	}
	s.outlines[docID] = *outline
	return nil
}
