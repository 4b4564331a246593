package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// MockConnector answers with deterministic canned replies for local
// development without a model backend.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Chat(ctx context.Context, req *entity.LLMChatRequest) (*entity.LLMChatResponse, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion",
		zap.Int("message_count", len(req.Messages)),
	)

	last := ""
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Content
	}
	content := fmt.Sprintf("Based on the retrieved knowledge, here is what I found about your request: %s. "+
		"If this does not resolve your issue I can create an incident for you.", truncate(last, 120))

	return &entity.LLMChatResponse{Content: content, Model: "mock-model"}, nil
}

func (m *MockConnector) ChatStream(ctx context.Context, req *entity.LLMChatRequest, onDelta func(delta string) error) (string, error) {
	ctxzap.Info(ctx, "[MOCK] streaming chat completion",
		zap.Int("message_count", len(req.Messages)),
	)

	resp, err := m.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	for _, word := range strings.SplitAfter(resp.Content, " ") {
		if err := onDelta(word); err != nil {
			return "", err
		}
	}
	return resp.Content, nil
}

func (m *MockConnector) RewriteQuery(ctx context.Context, query string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] query rewrite",
		zap.Int("query_length", len(query)),
	)
	return query, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
