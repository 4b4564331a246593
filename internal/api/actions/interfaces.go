package actions

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type ActionService interface {
	Confirm(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error)
	Cancel(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error)
	ListPending(sessionID, userID string) []*entity.PendingAction
}

type LimiterService interface {
	Status(userID string) entity.RateLimitStatusDTO
}
