package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrDocNotFound indicates the target document does not exist.
	ErrDocNotFound = errors.New("document not found")

	// ErrBlockNotFound indicates an operation references a block ID
	// that is not present in the document.
	ErrBlockNotFound = errors.New("block not found")

	// ErrStaleVersion indicates the batch's base version no longer
	// matches the document. The document changed since the batch was
	// proposed; the caller must re-observe and re-propose.
	ErrStaleVersion = errors.New("stale document version")

	// ErrStaleBlock indicates a single block's expected hash no longer
	// matches its current content. A finer-grained conflict than
	// ErrStaleVersion.
	ErrStaleBlock = errors.New("stale block hash")

	// ErrRangeOutOfBounds indicates a replace range does not satisfy
	// 0 <= start <= end <= len(text).
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrInvalidOperation indicates a malformed operation (unknown
	// kind, bad heading level, conflicting insert anchors).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAlreadyExists indicates a document with the ID already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAgentUnavailable indicates no LLM client is configured.
	// Automated edit proposals are disabled; manual batches still work.
	ErrAgentUnavailable = errors.New("agent unavailable")

	// ErrWorkflowState indicates a workflow method was called in a
	// state that does not permit it.
	ErrWorkflowState = errors.New("invalid workflow state")
)

// FailureCode is the structured code reported for a rejected batch.
type FailureCode string

const (
	CodeDocNotFound      FailureCode = "DOC_NOT_FOUND"
	CodeStaleVersion     FailureCode = "STALE_VERSION"
	CodeStaleBlock       FailureCode = "STALE_BLOCK"
	CodeBlockNotFound    FailureCode = "BLOCK_NOT_FOUND"
	CodeRangeOutOfBounds FailureCode = "RANGE_OUT_OF_BOUNDS"
	CodeInvalidOperation FailureCode = "INVALID_OPERATION"
	CodeEmptyDocument    FailureCode = "EMPTY_DOCUMENT"
	CodeAgentUnavailable FailureCode = "AGENT_UNAVAILABLE"
)

// BatchError is a validation failure for an edit batch. It carries the
// structured code, the offending block where applicable, and wraps the
// matching sentinel so errors.Is works.
type BatchError struct {
	Code    FailureCode
	BlockID string
	Err     error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.BlockID != "" {
		return fmt.Sprintf("%s: block %s: %v", e.Code, e.BlockID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the wrapped sentinel error.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewBatchError builds a BatchError for the given code and block.
func NewBatchError(code FailureCode, blockID string, err error) *BatchError {
	return &BatchError{Code: code, BlockID: blockID, Err: err}
}

// CodeOf extracts the failure code from an error. Returns the empty
// string for errors that are not batch validation failures.
func CodeOf(err error) FailureCode {
	var be *BatchError
	if errors.As(err, &be) {
		return be.Code
	}
	switch {
	case errors.Is(err, ErrDocNotFound):
		return CodeDocNotFound
	case errors.Is(err, ErrStaleVersion):
		return CodeStaleVersion
	case errors.Is(err, ErrStaleBlock):
		return CodeStaleBlock
	case errors.Is(err, ErrBlockNotFound):
		return CodeBlockNotFound
	case errors.Is(err, ErrRangeOutOfBounds):
		return CodeRangeOutOfBounds
	case errors.Is(err, ErrInvalidOperation):
		return CodeInvalidOperation
	case errors.Is(err, ErrAgentUnavailable):
		return CodeAgentUnavailable
	}
	return ""
}
