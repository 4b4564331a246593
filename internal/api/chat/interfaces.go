package chat

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type ChatUsecase interface {
	HandleMessage(ctx context.Context, req *entity.ChatMessageRequest) (*entity.ChatResult, error)
	HandleMessageStream(ctx context.Context, req *entity.ChatMessageRequest, onDelta func(delta string) error) (*entity.ChatResult, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.TranscriptExport, error)
}
