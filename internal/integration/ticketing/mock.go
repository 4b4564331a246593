package ticketing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// MockConnector fabricates record ids without a ticketing backend.
type MockConnector struct {
	logger  *zap.Logger
	counter atomic.Int64
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) CreateIncident(ctx context.Context, req *entity.IncidentCreationRequest) (*entity.CreationResult, error) {
	id := fmt.Sprintf("INC%08d", m.counter.Add(1))
	ctxzap.Info(ctx, "[MOCK] incident created",
		zap.String("record_id", id),
		zap.String("summary", req.Summary),
	)
	return &entity.CreationResult{Success: true, RecordID: id}, nil
}

func (m *MockConnector) CreateWorkOrder(ctx context.Context, req *entity.WorkOrderCreationRequest) (*entity.CreationResult, error) {
	id := fmt.Sprintf("WO%08d", m.counter.Add(1))
	ctxzap.Info(ctx, "[MOCK] work order created",
		zap.String("record_id", id),
		zap.String("summary", req.Summary),
	)
	return &entity.CreationResult{Success: true, RecordID: id}, nil
}
