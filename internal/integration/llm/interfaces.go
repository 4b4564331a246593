package llm

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ChatConnector is the full surface of the completion service client,
// satisfied by both Connector and MockConnector.
type ChatConnector interface {
	Chat(ctx context.Context, req *entity.LLMChatRequest) (*entity.LLMChatResponse, error)
	ChatStream(ctx context.Context, req *entity.LLMChatRequest, onDelta func(delta string) error) (string, error)
	RewriteQuery(ctx context.Context, query string) (string, error)
}
