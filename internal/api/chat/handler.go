package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/logger"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// SendMessage handles POST /chat/message - process one conversation turn
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	var req entity.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Stream {
		h.streamMessage(ctx, w, &req)
		return
	}

	result, err := h.usecase.HandleMessage(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// streamMessage writes newline-delimited JSON chunks, one per reply delta,
// followed by a final chunk carrying the full result.
func (h *Handler) streamMessage(ctx context.Context, w http.ResponseWriter, req *entity.ChatMessageRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(ctx, w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	result, err := h.usecase.HandleMessageStream(ctx, req, func(delta string) error {
		if err := enc.Encode(entity.LLMStreamChunk{Delta: delta}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; report the failure in-band.
		ctxzap.Error(ctx, "streaming turn failed", zap.Error(err))
		enc.Encode(map[string]string{"error": err.Error()})
		flusher.Flush()
		return
	}

	enc.Encode(map[string]any{"done": true, "result": result})
	flusher.Flush()
}

// GetTranscript handles GET /chat/{session_id}/transcript - download transcript
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetTranscript"),
	)

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	export, err := h.usecase.ExportTranscript(ctx, sessionID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "transcript exported", zap.Int("size", len(export.Data)))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
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
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrActionNotFound), errors.Is(err, entity.ErrWrongSession):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrQueryTooLong), errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInjectionDetected), errors.Is(err, entity.ErrPolicyRejected):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "message rejected", err)
	case errors.Is(err, entity.ErrRateLimited):
		h.respondError(ctx, w, http.StatusTooManyRequests, "rate limit exceeded", err)
	case errors.Is(err, entity.ErrActionExpired), errors.Is(err, entity.ErrActionTerminal):
		h.respondError(ctx, w, http.StatusConflict, "action no longer pending", err)
	case errors.Is(err, entity.ErrExternalFailure), errors.Is(err, entity.ErrStreamTimeout):
		h.respondError(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
