package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/inkwell-labs/inkwell-cli/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.WorkflowService = (*Orchestrator)(nil)

// proposeToolName is the tool the agent must invoke to return edits.
const proposeToolName = "propose_edits"

// Orchestrator sequences one edit workflow: retrieval, agent proposal,
// simulated preview, and the user-gated apply. The engine stays
// synchronous and side-effect-free underneath; the orchestrator only
// yields at the agent call, the ranking call inside retrieval, and the
// explicit confirmation. Cancellation before Confirm never leaves
// mutated state.
type Orchestrator struct {
	retrieval driving.RetrievalService
	engine    driving.EditService
	llm       driven.LLMService
	limiter   *rate.Limiter

	mu       sync.Mutex
	state    driving.WorkflowState
	proposal *driving.Proposal
}

// NewOrchestrator creates a workflow orchestrator. llm may be nil, in
// which case Propose fails with AGENT_UNAVAILABLE.
func NewOrchestrator(retrieval driving.RetrievalService, engine driving.EditService, llm driven.LLMService) *Orchestrator {
	return &Orchestrator{
		retrieval: retrieval,
		engine:    engine,
		llm:       llm,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		state:     driving.StateIdle,
	}
}

// SetRateLimiter replaces the limiter applied to agent calls.
func (o *Orchestrator) SetRateLimiter(l *rate.Limiter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.limiter = l
}

// State reports the current workflow state.
func (o *Orchestrator) State() driving.WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reset returns the workflow to Idle and drops any held proposal.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = driving.StateIdle
	o.proposal = nil
}

// setState transitions the machine and logs the edge.
func (o *Orchestrator) setState(s driving.WorkflowState) {
	o.mu.Lock()
	logger.Debug("Workflow: %s -> %s", o.state, s)
	o.state = s
	o.mu.Unlock()
}

// fail moves to Failed and returns the error unchanged.
func (o *Orchestrator) fail(err error) error {
	o.setState(driving.StateFailed)
	logger.Warn("Workflow failed: %v", err)
	return err
}

// emit sends a progress event without ever blocking the workflow.
func emit(ch chan<- driving.ProgressEvent, ev driving.ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}

// Propose drives the workflow from Idle through AwaitingConfirmation.
func (o *Orchestrator) Propose(ctx context.Context, req driving.EditRequest) (*driving.Proposal, error) {
	o.mu.Lock()
	switch o.state {
	case driving.StateIdle, driving.StateApplied, driving.StateRejected, driving.StateFailed:
		// Terminal states restart cleanly.
		o.proposal = nil
	default:
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: propose while %s", domain.ErrWorkflowState, o.state)
	}
	o.state = driving.StateRetrieving
	o.mu.Unlock()

	logger.Section("Edit Workflow")
	logger.Info("Doc: %s, intent: %s", req.DocID, req.Intent)
	emit(req.Progress, driving.ProgressEvent{Phase: driving.StateRetrieving, Status: "selecting target blocks"})

	if o.llm == nil {
		return nil, o.fail(domain.NewBatchError(domain.CodeAgentUnavailable, "", domain.ErrAgentUnavailable))
	}

	retrieval, err := o.retrieval.FindTargets(ctx, req.DocID, req.Intent, req.CustomQuery, req.MaxBlocks)
	if err != nil {
		return nil, o.fail(fmt.Errorf("retrieval: %w", err))
	}
	if len(retrieval.Blocks) == 0 {
		return nil, o.fail(fmt.Errorf("no target blocks for intent %s in document %s", req.Intent, req.DocID))
	}

	o.setState(driving.StateAwaitingProposal)
	batch, err := o.collectProposal(ctx, req, retrieval)
	if err != nil {
		return nil, o.fail(err)
	}
	if len(batch.Operations) == 0 {
		return nil, o.fail(fmt.Errorf("agent proposed no operations for document %s", req.DocID))
	}

	o.setState(driving.StateSimulating)
	emit(req.Progress, driving.ProgressEvent{Phase: driving.StateSimulating, Status: "previewing batch"})

	preview, err := o.engine.SimulateOps(ctx, *batch)
	if err != nil {
		return nil, o.fail(fmt.Errorf("simulate: %w", err))
	}

	proposal := &driving.Proposal{Batch: *batch, Preview: preview, Retrieval: retrieval}

	o.mu.Lock()
	o.proposal = proposal
	o.state = driving.StateAwaitingConfirmation
	o.mu.Unlock()

	emit(req.Progress, driving.ProgressEvent{Phase: driving.StateAwaitingConfirmation, Status: "awaiting confirmation"})
	logger.Info("Proposal ready: %d ops across %d blocks", len(batch.Operations), preview.Stats.BlocksEdited)

	return proposal, nil
}

// Confirm applies the held proposal. Only valid in AwaitingConfirmation.
func (o *Orchestrator) Confirm(ctx context.Context) (*domain.ApplyResult, error) {
	o.mu.Lock()
	if o.state != driving.StateAwaitingConfirmation || o.proposal == nil {
		state := o.state
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: confirm while %s", domain.ErrWorkflowState, state)
	}
	batch := o.proposal.Batch
	o.state = driving.StateApplying
	o.mu.Unlock()

	result, err := o.engine.ApplyOps(ctx, batch)
	if err != nil {
		return nil, o.fail(fmt.Errorf("apply: %w", err))
	}

	o.mu.Lock()
	o.state = driving.StateApplied
	o.proposal = nil
	o.mu.Unlock()

	logger.Info("Workflow applied, new version %.12s", result.NewVersion)
	return result, nil
}

// Reject discards the held proposal. Nothing has been mutated, so the
// reject is always safe.
func (o *Orchestrator) Reject() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != driving.StateAwaitingConfirmation {
		return fmt.Errorf("%w: reject while %s", domain.ErrWorkflowState, o.state)
	}
	o.state = driving.StateRejected
	o.proposal = nil
	logger.Info("Workflow rejected by caller")
	return nil
}

// collectProposal asks the agent for edits one target block at a time,
// keeping each call small enough to reason about, and folds the
// returned operations into a single batch. Progress events carry the
// per-block current/total counts.
func (o *Orchestrator) collectProposal(
	ctx context.Context, req driving.EditRequest, retrieval *domain.RetrievalResult,
) (*domain.DocEditBatch, error) {
	batch := &domain.DocEditBatch{
		DocID:       retrieval.DocID,
		BaseVersion: retrieval.BaseVersion,
		Notes:       fmt.Sprintf("agent proposal for intent %s", req.Intent),
	}

	o.mu.Lock()
	limiter := o.limiter
	o.mu.Unlock()

	total := len(retrieval.Blocks)
	for i, target := range retrieval.Blocks {
		emit(req.Progress, driving.ProgressEvent{
			Phase:   driving.StateAwaitingProposal,
			Current: i + 1,
			Total:   total,
			Status:  fmt.Sprintf("proposing edits for block %d of %d", i+1, total),
		})

		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		ops, err := o.proposeForBlock(ctx, req, retrieval, target)
		if err != nil {
			return nil, err
		}
		batch.Operations = append(batch.Operations, ops...)
	}

	return batch, nil
}

// proposeForBlock runs one tool-enabled agent call for a single block.
// A plain-text answer (no tool call) means the agent declined to edit
// the block, which is not an error.
func (o *Orchestrator) proposeForBlock(
	ctx context.Context, req driving.EditRequest, retrieval *domain.RetrievalResult, target domain.TargetBlock,
) ([]domain.Operation, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt(req.Intent, req.CustomQuery, retrieval.Outline)},
		{Role: "user", Content: blockPrompt(target)},
	}

	result, err := o.llm.ChatWithTools(ctx, messages, []driven.ToolDefinition{proposeTool()}, driven.ChatOptions{
		MaxTokens:   2048,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("agent call for block %s: %w", target.ID, err)
	}

	if result.ToolCall == nil {
		logger.Debug("Agent declined block %s: %.80s", target.ID, result.Text)
		return nil, nil
	}
	if result.ToolCall.Name != proposeToolName {
		return nil, fmt.Errorf("agent invoked unknown tool %q", result.ToolCall.Name)
	}

	var payload struct {
		Operations []domain.Operation `json:"operations"`
	}
	if err := json.Unmarshal(result.ToolCall.ArgumentsJSON, &payload); err != nil {
		return nil, fmt.Errorf("decode agent proposal for block %s: %w", target.ID, err)
	}

	// The agent is told the block's ID and hash; fill them in where it
	// left them implicit so a well-formed proposal survives validation.
	for i := range payload.Operations {
		op := &payload.Operations[i]
		if op.Kind == domain.OpInsert {
			if op.AfterBlockID == "" && op.BeforeBlockID == "" {
				op.AfterBlockID = target.ID
			}
			continue
		}
		if op.BlockID == "" {
			op.BlockID = target.ID
		}
		if op.ExpectedHash == "" && op.BlockID == target.ID {
			op.ExpectedHash = target.Hash
		}
	}

	logger.Debug("Agent proposed %d ops for block %s", len(payload.Operations), target.ID)
	return payload.Operations, nil
}

// systemPrompt frames the editing task for the agent.
func systemPrompt(intent domain.EditIntent, customQuery string, outline *domain.Outline) string {
	prompt := "You are a prose editor working on one block of a manuscript at a time.\n" +
		"Goal: " + intentInstruction(intent, customQuery) + "\n" +
		"Respond by calling the " + proposeToolName + " tool with the operations to perform. " +
		"Use rune offsets into the block text for replace ranges. " +
		"If the block needs no changes, answer in plain text instead of calling the tool."

	if !outline.Empty() {
		prompt += "\n\nStory context:"
		if outline.Goal != "" {
			prompt += "\n- Goal: " + outline.Goal
		}
		if outline.Conflict != "" {
			prompt += "\n- Conflict: " + outline.Conflict
		}
		if outline.Outcome != "" {
			prompt += "\n- Outcome: " + outline.Outcome
		}
		if outline.Clock != "" {
			prompt += "\n- Clock: " + outline.Clock
		}
		if outline.Crucible != "" {
			prompt += "\n- Crucible: " + outline.Crucible
		}
	}
	return prompt
}

// intentInstruction renders the editing goal for the prompt.
func intentInstruction(intent domain.EditIntent, customQuery string) string {
	switch intent {
	case domain.IntentReduceAdverbs:
		return "replace weak adverb constructions with stronger verbs"
	case domain.IntentFixPassiveVoice:
		return "rewrite passive constructions in active voice"
	case domain.IntentTightenProse:
		return "tighten the prose; cut hedges and redundancy"
	case domain.IntentRemoveFiller:
		return "remove filler words without changing meaning"
	case domain.IntentExpand:
		return "expand the block with concrete sensory detail"
	case domain.IntentSimplify:
		return "simplify the language while keeping the voice"
	case domain.IntentFixGrammar:
		return "fix grammatical errors only; change nothing else"
	case domain.IntentCustom:
		return customQuery
	default:
		return string(intent)
	}
}

// blockPrompt renders one target block for the agent.
func blockPrompt(target domain.TargetBlock) string {
	return fmt.Sprintf("Block ID: %s\nBlock hash: %s\nBlock text:\n%s", target.ID, target.Hash, target.Text)
}

// proposeTool is the tool definition offered to the agent. The schema
// mirrors the DocEditBatch wire operations.
func proposeTool() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        proposeToolName,
		Description: "Propose edit operations for the current block",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operations": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"kind":          map[string]any{"type": "string", "enum": []string{"replace", "insert", "delete"}},
							"blockId":       map[string]any{"type": "string"},
							"expectedHash":  map[string]any{"type": "string"},
							"start":         map[string]any{"type": "integer"},
							"end":           map[string]any{"type": "integer"},
							"text":          map[string]any{"type": "string"},
							"afterBlockId":  map[string]any{"type": "string"},
							"beforeBlockId": map[string]any{"type": "string"},
							"block": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"type":  map[string]any{"type": "string", "enum": []string{"paragraph", "heading"}},
									"level": map[string]any{"type": "integer"},
									"text":  map[string]any{"type": "string"},
								},
								"required": []string{"type", "text"},
							},
						},
						"required": []string{"kind"},
					},
				},
			},
			"required": []string{"operations"},
		},
	}
}
