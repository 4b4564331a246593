package handlers

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ChatService is the assistant surface the bot talks to. Confirmation and
// cancellation flow through HandleMessage as chat commands, so button
// presses and typed commands take the same path.
type ChatService interface {
	HandleMessage(ctx context.Context, req *entity.ChatMessageRequest) (*entity.ChatResult, error)
	PendingActions(sessionID, userID string) []entity.PendingActionDTO
}
