// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Inkwell. It lets an external agent drive the propose/preview/
// apply loop itself: select target blocks, simulate a batch, and apply
// it under the same optimistic-concurrency checks as every other caller.
package mcp

import "errors"

// ErrMissingEditService is returned when the edit service is not provided.
var ErrMissingEditService = errors.New("mcp: edit service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
