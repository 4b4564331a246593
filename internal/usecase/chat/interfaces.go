package chat

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type RetrievalService interface {
	Retrieve(ctx context.Context, user entity.UserContext, query string) (*entity.RetrievalResult, error)
}

type ConfirmationService interface {
	StageIncident(ctx context.Context, user entity.UserContext, sessionID string, req *entity.IncidentCreationRequest) (*entity.PendingAction, error)
	StageWorkOrder(ctx context.Context, user entity.UserContext, sessionID string, req *entity.WorkOrderCreationRequest) (*entity.PendingAction, error)
	Confirm(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error)
	Cancel(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error)
	ListPending(sessionID, userID string) []*entity.PendingAction
}

type LLMConnector interface {
	Chat(ctx context.Context, req *entity.LLMChatRequest) (*entity.LLMChatResponse, error)
	ChatStream(ctx context.Context, req *entity.LLMChatRequest, onDelta func(delta string) error) (string, error)
}
