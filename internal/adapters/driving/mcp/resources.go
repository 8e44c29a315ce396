package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for Inkwell resources.
const uriScheme = "inkwell://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all documents with their base versions",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for document blocks, including per-block hashes an edit
	// proposal must echo back.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/blocks",
		Name:        "document-blocks",
		Description: "Blocks of a document with IDs and content hashes",
		MIMEType:    "application/json",
	}, s.handleBlocksResource)

	// Template for readable document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Rendered text content of a document",
		MIMEType:    "text/plain",
	}, s.handleContentResource)
}

// handleDocumentsResource returns a list of all documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		BaseVersion string `json:"baseVersion"`
		BlockCount  int    `json:"blockCount"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:          docs[i].ID,
			Title:       docs[i].Title,
			BaseVersion: docs[i].BaseVersion,
			BlockCount:  len(docs[i].Blocks),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBlocksResource returns the blocks of a specific document.
func (s *Server) handleBlocksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractBlocksDocID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	payload := struct {
		BaseVersion string         `json:"baseVersion"`
		Blocks      []domain.Block `json:"blocks"`
	}{
		BaseVersion: doc.BaseVersion,
		Blocks:      doc.Blocks,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling blocks: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleContentResource returns the rendered content of a document.
func (s *Server) handleContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     renderContent(doc),
		}},
	}, nil
}

// renderContent joins blocks into readable text, marking headings with
// '#' runs.
func renderContent(doc *domain.Document) string {
	parts := make([]string, len(doc.Blocks))
	for i := range doc.Blocks {
		blk := &doc.Blocks[i]
		if blk.Type == domain.BlockHeading {
			parts[i] = strings.Repeat("#", blk.Level) + " " + blk.Text
		} else {
			parts[i] = blk.Text
		}
	}
	return strings.Join(parts, "\n\n")
}

// extractBlocksDocID extracts the document ID from a URI like
// inkwell://documents/{documentId}/blocks.
func extractBlocksDocID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/blocks"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractDocumentID extracts the document ID from a URI like
// inkwell://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
