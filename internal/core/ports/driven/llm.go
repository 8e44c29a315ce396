package driven

import "context"

// LLMService obtains edit proposals from a language model. This is an
// optional service - when nil, the orchestrator reports
// domain.ErrAgentUnavailable and manual batches remain the only path.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI (GPT models)
type LLMService interface {
	// Chat conducts a conversation and returns plain text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatWithTools conducts a conversation in which the model may
	// answer by invoking one of the offered tools. The result carries
	// either Text or a ToolInvocation, never both.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, opts ChatOptions) (*ChatResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage is a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ToolDefinition describes a tool the model may invoke. InputSchema is
// a JSON Schema object in provider-neutral form.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolInvocation is the model's structured call to a tool.
type ToolInvocation struct {
	// Name is the invoked tool.
	Name string

	// ArgumentsJSON is the raw JSON argument payload.
	ArgumentsJSON []byte
}

// ChatResult is the outcome of a tool-enabled chat turn.
type ChatResult struct {
	// Text is the plain-text answer, when the model did not call a tool.
	Text string

	// ToolCall is set when the model invoked a tool.
	ToolCall *ToolInvocation
}
