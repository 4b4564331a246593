package actions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/logger"
)

type Handler struct {
	actions ActionService
	limiter LimiterService
}

func NewHandler(actions ActionService, limiter LimiterService) *Handler {
	return &Handler{actions: actions, limiter: limiter}
}

type decisionRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// ConfirmAction handles POST /actions/{action_id}/confirm - execute a staged action
func (h *Handler) ConfirmAction(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ConfirmAction")
	h.decide(ctx, w, r, h.actions.Confirm)
}

// CancelAction handles POST /actions/{action_id}/cancel - discard a staged action
func (h *Handler) CancelAction(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CancelAction")
	h.decide(ctx, w, r, h.actions.Cancel)
}

func (h *Handler) decide(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error),
) {
	actionID := chi.URLParam(r, "action_id")
	ctx = logger.AddFields(ctx, zap.String("action_id", actionID))

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.SessionID == "" || req.UserID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "session_id and user_id are required", entity.ErrMissingField)
		return
	}

	result, err := fn(ctx, req.SessionID, req.UserID, actionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListPending handles GET /actions/pending - list actions awaiting confirmation
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	userID := r.URL.Query().Get("user_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ListPending"),
	)

	if sessionID == "" || userID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "session_id and user_id are required", entity.ErrMissingField)
		return
	}

	pending := h.actions.ListPending(sessionID, userID)
	out := make([]entity.PendingActionDTO, 0, len(pending))
	for _, a := range pending {
		out = append(out, entity.ToPendingActionDTO(a))
	}

	h.respondJSON(w, http.StatusOK, out)
}

// GetRateLimitStatus handles GET /actions/rate-limit - current write-action quota
func (h *Handler) GetRateLimitStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	ctx := logger.WithAction(r.Context(), "GetRateLimitStatus")

	if userID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "user_id is required", entity.ErrMissingField)
		return
	}

	h.respondJSON(w, http.StatusOK, h.limiter.Status(userID))
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrActionNotFound), errors.Is(err, entity.ErrWrongSession):
		h.respondError(ctx, w, http.StatusNotFound, "action not found", err)
	case errors.Is(err, entity.ErrActionExpired), errors.Is(err, entity.ErrActionTerminal):
		h.respondError(ctx, w, http.StatusConflict, "action no longer pending", err)
	case errors.Is(err, entity.ErrRateLimited):
		h.respondError(ctx, w, http.StatusTooManyRequests, "rate limit exceeded", err)
	case errors.Is(err, entity.ErrExternalFailure):
		h.respondError(ctx, w, http.StatusBadGateway, "ticketing service failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
