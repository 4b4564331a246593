package ticketing

import (
	"context"
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
	config    config.TicketingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.TicketingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type createResponse struct {
	RecordID string `json:"record_id"`
	Message  string `json:"message"`
}

// CreateIncident files an incident in the ticketing system.
// POST {incident_endpoint}
// A failed call returns a CreationResult with the error message instead of an
// error: callers report the failure to the user, they do not retry past the
// connector's own policy.
func (c *Connector) CreateIncident(ctx context.Context, req *entity.IncidentCreationRequest) (*entity.CreationResult, error) {
	ctxzap.Info(ctx, "creating incident", zap.String("assigned_group", req.AssignedGroup))

	var resp createResponse
	err := retry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.IncidentEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "incident creation failed", zap.Error(err))
		return &entity.CreationResult{Success: false, ErrorMessage: err.Error()}, nil
	}

	ctxzap.Info(ctx, "incident created", zap.String("record_id", resp.RecordID))
	return &entity.CreationResult{Success: true, RecordID: resp.RecordID}, nil
}

// CreateWorkOrder files a work order in the ticketing system.
// POST {workorder_endpoint}
func (c *Connector) CreateWorkOrder(ctx context.Context, req *entity.WorkOrderCreationRequest) (*entity.CreationResult, error) {
	ctxzap.Info(ctx, "creating work order", zap.String("priority", req.Priority))

	var resp createResponse
	err := retry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.WorkOrderEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "work order creation failed", zap.Error(err))
		return &entity.CreationResult{Success: false, ErrorMessage: err.Error()}, nil
	}

	ctxzap.Info(ctx, "work order created", zap.String("record_id", resp.RecordID))
	return &entity.CreationResult{Success: true, RecordID: resp.RecordID}, nil
}
