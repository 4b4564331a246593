package confirmation

import (
	"context"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ConfirmationUsecase owns the staged-action lifecycle: staging, explicit
// confirm or cancel, expiry, execution against the ticketing system, and the
// audit trail. Nothing executes without a prior matching confirm.
type ConfirmationUsecase struct {
	cfg       config.AgenticConfig
	store     *actionStore
	ticketing TicketingConnector
	audit     AuditRepository
	limiter   ActionLimiter
	logger    *zap.Logger
	now       func() time.Time
}

func NewUsecase(
	cfg config.AgenticConfig,
	ticketing TicketingConnector,
	audit AuditRepository,
	limiter ActionLimiter,
	logger *zap.Logger,
) *ConfirmationUsecase {
	return &ConfirmationUsecase{
		cfg:       cfg,
		store:     newActionStore(cfg.ConfirmationTimeout, cfg.MaxPendingActions),
		ticketing: ticketing,
		audit:     audit,
		limiter:   limiter,
		logger:    logger,
		now:       time.Now,
	}
}

// StageIncident stages an incident creation for confirmation.
func (uc *ConfirmationUsecase) StageIncident(ctx context.Context, user entity.UserContext, sessionID string, req *entity.IncidentCreationRequest) (*entity.PendingAction, error) {
	action := &entity.PendingAction{
		Type:     entity.ActionIncidentCreate,
		Preview:  req.PreviewString(),
		Incident: req,
	}
	return uc.stage(ctx, user, sessionID, action)
}

// StageWorkOrder stages a work order creation for confirmation.
func (uc *ConfirmationUsecase) StageWorkOrder(ctx context.Context, user entity.UserContext, sessionID string, req *entity.WorkOrderCreationRequest) (*entity.PendingAction, error) {
	action := &entity.PendingAction{
		Type:      entity.ActionWorkOrderCreate,
		Preview:   req.PreviewString(),
		WorkOrder: req,
	}
	return uc.stage(ctx, user, sessionID, action)
}

func (uc *ConfirmationUsecase) stage(ctx context.Context, user entity.UserContext, sessionID string, action *entity.PendingAction) (*entity.PendingAction, error) {
	if !uc.cfg.Enabled {
		return nil, fmt.Errorf("%w: write actions are disabled", entity.ErrPolicyRejected)
	}
	// Pure read: a staged-then-abandoned action must not consume allowance.
	if uc.limiter.IsRateLimited(user.UserID) {
		return nil, fmt.Errorf("%w: hourly action limit reached", entity.ErrRateLimited)
	}

	now := uc.now()
	action.ActionID = entity.NewActionID()
	action.OwnerSessionID = sessionID
	action.OwnerUserID = user.UserID
	action.StagedAt = now
	action.ExpiresAt = now.Add(uc.cfg.ConfirmationTimeout)
	action.Status = entity.ActionPending

	if !uc.store.put(action) {
		return nil, fmt.Errorf("%w: too many pending actions, try again later", entity.ErrPolicyRejected)
	}
	if err := uc.audit.RecordStaged(ctx, action); err != nil {
		ctxzap.Warn(ctx, "failed to record staged action audit", zap.Error(err))
	}

	ctxzap.Info(ctx, "action staged",
		zap.String("action_id", action.ActionID),
		zap.String("action_type", string(action.Type)),
		zap.Time("expires_at", action.ExpiresAt),
	)
	return action, nil
}

// Confirm validates ownership and freshness of the staged action, executes it
// against the ticketing system, and counts it toward the user's allowance.
// The check-then-transition is atomic per action id, so exactly one of two
// racing confirms executes.
func (uc *ConfirmationUsecase) Confirm(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error) {
	unlock := uc.store.lockAction(actionID)
	defer unlock()

	action, err := uc.checkedAction(ctx, sessionID, userID, actionID)
	if err != nil {
		return nil, err
	}

	// Re-check the allowance at execution time: staging ahead of the quota
	// must not bank actions past it. The action stays pending so the user
	// can confirm once the window rolls over.
	if uc.limiter.IsRateLimited(userID) {
		return nil, fmt.Errorf("%w: hourly action limit reached", entity.ErrRateLimited)
	}

	action.Status = entity.ActionConfirmed
	uc.recordTransition(ctx, actionID, entity.AuditConfirmed, "", "")

	result, err := uc.execute(ctx, action)
	if err != nil {
		// Executing failed before the backend could answer. The action stays
		// consumed: re-staging is cheaper than risking a duplicate ticket.
		uc.recordTransition(ctx, actionID, entity.AuditFailed, "", err.Error())
		uc.store.delete(actionID)
		return nil, fmt.Errorf("execute action: %w", err)
	}

	if !result.Success {
		uc.recordTransition(ctx, actionID, entity.AuditFailed, "", result.ErrorMessage)
		uc.store.delete(actionID)
		return &entity.ConfirmationResult{
			Success: false,
			Message: result.UserMessage(action.Type),
		}, nil
	}

	// Only durably executed actions consume allowance.
	uc.limiter.RecordAction(userID)
	uc.recordTransition(ctx, actionID, entity.AuditExecuted, result.RecordID, "")
	uc.store.delete(actionID)

	ctxzap.Info(ctx, "action executed",
		zap.String("action_id", actionID),
		zap.String("record_id", result.RecordID),
	)
	return &entity.ConfirmationResult{
		Success:  true,
		RecordID: result.RecordID,
		Message:  result.UserMessage(action.Type),
	}, nil
}

// Cancel discards a staged action. Cancelling consumes nothing.
func (uc *ConfirmationUsecase) Cancel(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error) {
	unlock := uc.store.lockAction(actionID)
	defer unlock()

	action, err := uc.checkedAction(ctx, sessionID, userID, actionID)
	if err != nil {
		return nil, err
	}

	action.Status = entity.ActionCancelled
	uc.recordTransition(ctx, actionID, entity.AuditCancelled, "", "")
	uc.store.delete(actionID)

	ctxzap.Info(ctx, "action cancelled", zap.String("action_id", actionID))
	return &entity.ConfirmationResult{
		Cancelled: true,
		Message:   fmt.Sprintf("Cancelled. The %s will not be created.", action.Type.Label()),
	}, nil
}

// ListPending returns copies of the user's live staged actions in this
// session.
func (uc *ConfirmationUsecase) ListPending(sessionID, userID string) []*entity.PendingAction {
	now := uc.now()
	snap := uc.store.snapshot()
	var out []*entity.PendingAction
	for i := range snap {
		action := &snap[i]
		if action.Status != entity.ActionPending || action.IsExpired(now) {
			continue
		}
		if action.BelongsTo(sessionID, userID) {
			out = append(out, action)
		}
	}
	return out
}

// SweepExpired transitions timed-out actions to EXPIRED and drops them. Run
// periodically by the expiry daemon. Candidates come from an unlocked
// snapshot, so each one is re-read under its action lock before mutation.
func (uc *ConfirmationUsecase) SweepExpired(ctx context.Context) int {
	now := uc.now()
	swept := 0
	for _, candidate := range uc.store.snapshot() {
		if !candidate.IsExpired(now) {
			continue
		}
		unlock := uc.store.lockAction(candidate.ActionID)
		action, ok := uc.store.get(candidate.ActionID)
		if !ok {
			unlock()
			continue
		}
		if action.Status == entity.ActionPending && action.IsExpired(now) {
			action.Status = entity.ActionExpired
			uc.recordTransition(ctx, action.ActionID, entity.AuditExpired, "", "")
			swept++
		}
		uc.store.delete(action.ActionID)
		unlock()
	}
	if swept > 0 {
		ctxzap.Info(ctx, "expired actions swept", zap.Int("count", swept))
	}
	return swept
}

// checkedAction loads the action and enforces the transition guards: known
// id, same session and user, not expired, not already resolved. Caller holds
// the action lock.
func (uc *ConfirmationUsecase) checkedAction(ctx context.Context, sessionID, userID, actionID string) (*entity.PendingAction, error) {
	action, ok := uc.store.get(actionID)
	if !ok {
		return nil, fmt.Errorf("%w: no action with id %s", entity.ErrActionNotFound, actionID)
	}
	if !action.BelongsTo(sessionID, userID) {
		// The message matches the unknown-id case so ids cannot be probed
		// across sessions.
		ctxzap.Warn(ctx, "action ownership mismatch",
			zap.String("action_id", actionID),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("%w: no action with id %s", entity.ErrWrongSession, actionID)
	}
	if action.IsExpired(uc.now()) {
		if action.Status == entity.ActionPending {
			action.Status = entity.ActionExpired
			uc.recordTransition(ctx, actionID, entity.AuditExpired, "", "")
		}
		uc.store.delete(actionID)
		return nil, fmt.Errorf("%w: action %s timed out, please start over", entity.ErrActionExpired, actionID)
	}
	if action.Status.Terminal() {
		return nil, fmt.Errorf("%w: action %s was already %s", entity.ErrActionTerminal, actionID, action.Status)
	}
	return action, nil
}

func (uc *ConfirmationUsecase) execute(ctx context.Context, action *entity.PendingAction) (*entity.CreationResult, error) {
	switch action.Type {
	case entity.ActionIncidentCreate:
		return uc.ticketing.CreateIncident(ctx, action.Incident)
	case entity.ActionWorkOrderCreate:
		return uc.ticketing.CreateWorkOrder(ctx, action.WorkOrder)
	default:
		return nil, fmt.Errorf("%w: unsupported action type %s", entity.ErrInvalidInput, action.Type)
	}
}

func (uc *ConfirmationUsecase) recordTransition(ctx context.Context, actionID, status, recordID, detail string) {
	if err := uc.audit.RecordTransition(ctx, actionID, status, recordID, detail); err != nil {
		ctxzap.Warn(ctx, "failed to record action audit transition",
			zap.String("action_id", actionID),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}
