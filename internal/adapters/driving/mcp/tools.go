package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// FindTargetsInput is the input schema for the find_targets tool.
type FindTargetsInput struct {
	DocID     string `json:"doc_id" jsonschema:"the document to search"`
	Intent    string `json:"intent" jsonschema:"edit intent: reduce-adverbs, fix-passive-voice, tighten-prose, remove-filler, expand, simplify, fix-grammar, or custom"`
	Query     string `json:"query,omitempty" jsonschema:"free-text instruction for custom intents; also overrides the ranking query"`
	MaxBlocks int    `json:"max_blocks,omitempty" jsonschema:"maximum blocks to return (default 5)"`
}

// FindTargetsOutput is the output schema for the find_targets tool.
type FindTargetsOutput struct {
	DocID       string               `json:"doc_id"`
	BaseVersion string               `json:"base_version"`
	Blocks      []domain.TargetBlock `json:"blocks"`
	Outline     *domain.Outline      `json:"outline,omitempty"`
	Notes       []string             `json:"notes,omitempty"`
}

// BatchInput is the input schema shared by simulate_ops and apply_ops.
// It mirrors the DocEditBatch wire shape.
type BatchInput struct {
	DocID       string             `json:"docId" jsonschema:"the target document"`
	BaseVersion string             `json:"baseVersion" jsonschema:"the document base version the batch was proposed against"`
	Operations  []domain.Operation `json:"operations" jsonschema:"ordered edit operations"`
	Notes       string             `json:"notes,omitempty" jsonschema:"human-readable context for the batch"`
}

// batch converts the input to a domain batch.
func (in BatchInput) batch() domain.DocEditBatch {
	return domain.DocEditBatch{
		DocID:       in.DocID,
		BaseVersion: in.BaseVersion,
		Operations:  in.Operations,
		Notes:       in.Notes,
	}
}

// SimulateOutput is the output schema for the simulate_ops tool.
type SimulateOutput struct {
	OK            bool                 `json:"ok"`
	Code          string               `json:"code,omitempty"`
	Error         string               `json:"error,omitempty"`
	DiffMarkup    string               `json:"diff_markup,omitempty"`
	ChangedBlocks []domain.BlockChange `json:"changed_blocks,omitempty"`
	Stats         domain.EditStats     `json:"stats"`
	NewVersion    string               `json:"new_version,omitempty"`
}

// ApplyOutput is the output schema for the apply_ops tool.
type ApplyOutput struct {
	OK         bool             `json:"ok"`
	Code       string           `json:"code,omitempty"`
	Error      string           `json:"error,omitempty"`
	NewVersion string           `json:"new_version,omitempty"`
	Stats      domain.EditStats `json:"stats"`
}

// CreateDocumentInput is the input schema for the create_document tool.
type CreateDocumentInput struct {
	DocID  string                `json:"doc_id,omitempty" jsonschema:"document ID (generated when empty)"`
	Title  string                `json:"title,omitempty" jsonschema:"document title"`
	Blocks []domain.NewBlockSpec `json:"blocks" jsonschema:"ordered block specs"`
}

// CreateDocumentOutput is the output schema for the create_document tool.
type CreateDocumentOutput struct {
	DocID       string `json:"doc_id"`
	BaseVersion string `json:"base_version"`
	BlockCount  int    `json:"block_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_targets",
		Description: "Select candidate blocks of a document for an edit intent",
	}, s.handleFindTargets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "simulate_ops",
		Description: "Validate an edit batch and preview its diff without applying it",
	}, s.handleSimulateOps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_ops",
		Description: "Atomically apply an edit batch, advancing the document version",
	}, s.handleApplyOps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_document",
		Description: "Create a new block-versioned document",
	}, s.handleCreateDocument)
}

// handleFindTargets handles the find_targets tool invocation.
func (s *Server) handleFindTargets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindTargetsInput,
) (*mcp.CallToolResult, FindTargetsOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, FindTargetsOutput{}, domain.ErrAgentUnavailable
	}

	result, err := s.ports.Retrieval.FindTargets(
		ctx, input.DocID, domain.EditIntent(input.Intent), input.Query, input.MaxBlocks)
	if err != nil {
		return nil, FindTargetsOutput{}, err
	}

	return nil, FindTargetsOutput{
		DocID:       result.DocID,
		BaseVersion: result.BaseVersion,
		Blocks:      result.Blocks,
		Outline:     result.Outline,
		Notes:       result.Notes,
	}, nil
}

// handleSimulateOps handles the simulate_ops tool invocation. Batch
// validation failures are reported in-band with their structured code
// so the agent can re-retrieve and re-propose.
func (s *Server) handleSimulateOps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BatchInput,
) (*mcp.CallToolResult, SimulateOutput, error) {
	result, err := s.ports.Edit.SimulateOps(ctx, input.batch())
	if err != nil {
		if code := domain.CodeOf(err); code != "" {
			return nil, SimulateOutput{OK: false, Code: string(code), Error: err.Error()}, nil
		}
		return nil, SimulateOutput{}, err
	}

	return nil, SimulateOutput{
		OK:            true,
		DiffMarkup:    result.DiffMarkup,
		ChangedBlocks: result.ChangedBlocks,
		Stats:         result.Stats,
		NewVersion:    result.NewVersion,
	}, nil
}

// handleApplyOps handles the apply_ops tool invocation.
func (s *Server) handleApplyOps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BatchInput,
) (*mcp.CallToolResult, ApplyOutput, error) {
	result, err := s.ports.Edit.ApplyOps(ctx, input.batch())
	if err != nil {
		if code := domain.CodeOf(err); code != "" {
			return nil, ApplyOutput{OK: false, Code: string(code), Error: err.Error()}, nil
		}
		return nil, ApplyOutput{}, err
	}

	return nil, ApplyOutput{
		OK:         true,
		NewVersion: result.NewVersion,
		Stats:      result.Stats,
	}, nil
}

// handleCreateDocument handles the create_document tool invocation.
func (s *Server) handleCreateDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateDocumentInput,
) (*mcp.CallToolResult, CreateDocumentOutput, error) {
	doc, err := s.ports.Document.Create(ctx, input.DocID, input.Title, input.Blocks)
	if err != nil {
		return nil, CreateDocumentOutput{}, err
	}

	return nil, CreateDocumentOutput{
		DocID:       doc.ID,
		BaseVersion: doc.BaseVersion,
		BlockCount:  len(doc.Blocks),
	}, nil
}
