package entity

// Chat roles understood by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMMessage is a single turn in a completion request.
type LLMMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMChatRequest is the payload for the blocking and streaming completion
// endpoints.
type LLMChatRequest struct {
	Messages    []LLMMessage `json:"messages"`
	Temperature float32      `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

// LLMChatResponse is the blocking completion response.
type LLMChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// LLMStreamChunk is one server-sent event of a streamed completion.
type LLMStreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
}
