package interfaces

import "context"

// ChatMessage is one role-tagged turn in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool describes a single callable function exposed to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a structured function invocation returned by the model.
// Arguments is the raw JSON argument object.
type ToolCall struct {
	Name      string
	Arguments string
}

type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Tools       []Tool
	Temperature float64
	MaxTokens   int
}

// CompletionResult carries either text content or one tool invocation.
type CompletionResult struct {
	Content  string
	ToolCall *ToolCall
}

type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}
