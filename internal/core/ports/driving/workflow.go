package driving

import (
	"context"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// WorkflowState is a phase of the edit workflow state machine.
type WorkflowState string

const (
	StateIdle                 WorkflowState = "idle"
	StateRetrieving           WorkflowState = "retrieving"
	StateAwaitingProposal     WorkflowState = "awaiting-proposal"
	StateSimulating           WorkflowState = "simulating"
	StateAwaitingConfirmation WorkflowState = "awaiting-confirmation"
	StateApplying             WorkflowState = "applying"
	StateApplied              WorkflowState = "applied"
	StateRejected             WorkflowState = "rejected"
	StateFailed               WorkflowState = "failed"
)

// ProgressEvent is a discrete progress update emitted while the
// workflow advances. Current/Total count blocks during incremental
// proposal construction; both are zero for pure phase transitions.
type ProgressEvent struct {
	// Phase is the workflow state the event was emitted from.
	Phase WorkflowState

	// Current and Total count processed blocks, when applicable.
	Current int
	Total   int

	// Status is a short human-readable description.
	Status string
}

// EditRequest describes one automated edit workflow run.
type EditRequest struct {
	// DocID is the target document.
	DocID string

	// Intent is what the edit should achieve.
	Intent domain.EditIntent

	// CustomQuery is a free-text instruction for custom intents; it
	// also overrides the canned ranking query when set.
	CustomQuery string

	// MaxBlocks caps the retrieval working set; <= 0 uses the default.
	MaxBlocks int

	// Progress receives progress events when non-nil. Sends never
	// block; events are dropped if the channel is full.
	Progress chan<- ProgressEvent
}

// Proposal is the outcome of the retrieval/proposal/simulation phases,
// held pending explicit confirmation.
type Proposal struct {
	// Batch is the agent-proposed edit batch.
	Batch domain.DocEditBatch

	// Preview is the simulated result of the batch.
	Preview *domain.SimulateResult

	// Retrieval records which blocks were offered to the agent.
	Retrieval *domain.RetrievalResult
}

// WorkflowService sequences retrieval, agent proposal, simulated
// preview, and the user-gated apply. One workflow instance runs one
// edit at a time; after a terminal state it is restartable with no
// residual state.
type WorkflowService interface {
	// Propose drives Idle through AwaitingConfirmation: retrieval,
	// agent proposal, and simulation. On success the workflow holds
	// the proposal and awaits Confirm or Reject. Validation failures
	// move to Failed and are returned with their structured code.
	Propose(ctx context.Context, req EditRequest) (*Proposal, error)

	// Confirm applies the held proposal. Only valid in
	// AwaitingConfirmation.
	Confirm(ctx context.Context) (*domain.ApplyResult, error)

	// Reject discards the held proposal without mutating anything.
	Reject() error

	// State reports the current workflow state.
	State() WorkflowState

	// Reset returns the workflow to Idle from any state.
	Reset()
}
