package confirmation

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type TicketingConnector interface {
	CreateIncident(ctx context.Context, req *entity.IncidentCreationRequest) (*entity.CreationResult, error)
	CreateWorkOrder(ctx context.Context, req *entity.WorkOrderCreationRequest) (*entity.CreationResult, error)
}

type AuditRepository interface {
	RecordStaged(ctx context.Context, action *entity.PendingAction) error
	RecordTransition(ctx context.Context, actionID, status, recordID, detail string) error
}

type ActionLimiter interface {
	IsRateLimited(userID string) bool
	RecordAction(userID string)
}
