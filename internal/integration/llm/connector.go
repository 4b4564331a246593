package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/integration/common"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/retry"
	pkghttp "github.com/servicedesk-ai/assistant-backend/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Chat sends a full conversation and returns the complete assistant reply.
// POST {chat_endpoint}
func (c *Connector) Chat(ctx context.Context, req *entity.LLMChatRequest) (*entity.LLMChatResponse, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.Int("message_count", len(req.Messages)))

	var resp entity.LLMChatResponse
	err := retry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return nil, fmt.Errorf("%w: chat completion: %v", entity.ErrExternalFailure, err)
	}
	if resp.Content == "" {
		return nil, fmt.Errorf("%w: chat completion returned empty content", entity.ErrExternalFailure)
	}

	ctxzap.Info(ctx, "chat completion finished", zap.Int("content_length", len(resp.Content)))
	return &resp, nil
}

// ChatStream streams the assistant reply chunk by chunk. The whole stream is
// bounded by the configured stream timeout; onDelta receives each text delta
// as it arrives. Returns the assembled full reply.
func (c *Connector) ChatStream(ctx context.Context, req *entity.LLMChatRequest, onDelta func(delta string) error) (string, error) {
	ctxzap.Info(ctx, "requesting streaming chat completion", zap.Int("message_count", len(req.Messages)))

	streamCtx, cancel := context.WithTimeout(ctx, c.config.StreamTimeout)
	defer cancel()

	var full []byte
	err := c.connector.DoStreamRequest(streamCtx, http.MethodPost, c.config.StreamEndpoint, req,
		func() any { return &entity.LLMStreamChunk{} },
		func(chunk any) error {
			sc := chunk.(*entity.LLMStreamChunk)
			if sc.Delta != "" {
				full = append(full, sc.Delta...)
				if err := onDelta(sc.Delta); err != nil {
					return err
				}
			}
			return nil
		},
	)
	if err != nil {
		if streamCtx.Err() == context.DeadlineExceeded {
			ctxzap.Warn(ctx, "chat stream timed out", zap.Duration("timeout", c.config.StreamTimeout))
			return string(full), entity.ErrStreamTimeout
		}
		ctxzap.Error(ctx, "chat stream failed", zap.Error(err))
		return string(full), fmt.Errorf("%w: chat stream: %v", entity.ErrExternalFailure, err)
	}

	ctxzap.Info(ctx, "chat stream finished", zap.Int("content_length", len(full)))
	return string(full), nil
}

const rewritePrompt = "Rewrite the following IT support query so a knowledge base search " +
	"finds the most relevant results. Keep the original language, expand abbreviations, " +
	"and answer with the rewritten query only."

// RewriteQuery asks the model for a search-optimized rendering of the query.
func (c *Connector) RewriteQuery(ctx context.Context, query string) (string, error) {
	resp, err := c.Chat(ctx, &entity.LLMChatRequest{
		Messages: []entity.LLMMessage{
			{Role: entity.RoleSystem, Content: rewritePrompt},
			{Role: entity.RoleUser, Content: query},
		},
		Temperature: 0.2,
		MaxTokens:   256,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
