package mcp

import (
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Document creates and reads documents.
	Document driving.DocumentService

	// Edit simulates and applies batches.
	Edit driving.EditService

	// Retrieval selects target blocks for an intent.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Edit == nil {
		return ErrMissingEditService
	}
	// Retrieval is optional; without it only manual batches work.
	return nil
}
