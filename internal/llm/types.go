package llm

import "encoding/json"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
	// Function, when set, forces the model to answer with arguments for
	// this function. The arguments are returned in CompletionResponse.Arguments.
	Function *FunctionSchema
}

// CompletionResponse contains the result of an LLM completion request.
// An empty Content is a valid answer; failures are reported as errors.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
	Arguments    json.RawMessage
}

// TotalTokens returns input plus output tokens.
func (r *CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}
