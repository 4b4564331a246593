package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/formatter"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/intent"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/validation"
	"github.com/servicedesk-ai/assistant-backend/internal/repository"
)

// historyLimit caps how many stored turns feed the model prompt.
const historyLimit = 20

// ChatUsecase orchestrates one conversation turn: confirmation commands run
// first, then intent classification routes the message to retrieval-backed
// answering or to action staging.
type ChatUsecase struct {
	retrieval    RetrievalService
	confirmation ConfirmationService
	llm          LLMConnector
	classifier   *intent.Classifier
	validator    *validation.Validator
	messages     repository.ChatMessageRepository
	formatters   *formatter.Factory
	logger       *zap.Logger
}

func NewUsecase(
	retrieval RetrievalService,
	confirmation ConfirmationService,
	llm LLMConnector,
	classifier *intent.Classifier,
	validator *validation.Validator,
	messages repository.ChatMessageRepository,
	formatters *formatter.Factory,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		retrieval:    retrieval,
		confirmation: confirmation,
		llm:          llm,
		classifier:   classifier,
		validator:    validator,
		messages:     messages,
		formatters:   formatters,
		logger:       logger,
	}
}

// HandleMessage processes one user message and returns the assistant reply.
func (uc *ChatUsecase) HandleMessage(ctx context.Context, req *entity.ChatMessageRequest) (*entity.ChatResult, error) {
	return uc.handle(ctx, req, nil)
}

// HandleMessageStream processes one user message, streaming informational
// replies through onDelta. Staged-action prompts and confirmation outcomes
// arrive as a single delta.
func (uc *ChatUsecase) HandleMessageStream(ctx context.Context, req *entity.ChatMessageRequest, onDelta func(delta string) error) (*entity.ChatResult, error) {
	return uc.handle(ctx, req, onDelta)
}

func (uc *ChatUsecase) handle(ctx context.Context, req *entity.ChatMessageRequest, onDelta func(delta string) error) (*entity.ChatResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if req.Message == "" {
		return nil, fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	user := entity.UserContext{UserID: req.UserID, Groups: req.Groups}

	if err := uc.validator.CheckInjection(ctx, req.Message); err != nil {
		return nil, err
	}

	uc.persistTurn(ctx, sessionID, entity.RoleUser, req.Message)

	result, err := uc.route(ctx, user, sessionID, req.Message, onDelta)
	if err != nil {
		return nil, err
	}
	result.SessionID = sessionID

	uc.persistTurn(ctx, sessionID, entity.RoleAssistant, result.Reply)
	return result, nil
}

func (uc *ChatUsecase) route(ctx context.Context, user entity.UserContext, sessionID, message string, onDelta func(delta string) error) (*entity.ChatResult, error) {
	// Confirmation replies are commands, never new requests.
	if cmd, ok := intent.ParseConfirmCommand(message); ok {
		return uc.handleConfirmCommand(ctx, user, sessionID, cmd, onDelta)
	}

	detected := uc.classifier.Classify(message)
	ctxzap.Debug(ctx, "intent classified", zap.String("intent", string(detected)))

	switch detected {
	case entity.IntentActionIncident:
		return uc.stageIncidentFromMessage(ctx, user, sessionID, message, onDelta)
	case entity.IntentActionWorkOrder:
		return uc.stageWorkOrderFromMessage(ctx, user, sessionID, message, onDelta)
	case entity.IntentServiceRequest:
		return uc.answerServiceRequest(detected, onDelta)
	default:
		return uc.answerQuestion(ctx, user, sessionID, message, detected, onDelta)
	}
}

func (uc *ChatUsecase) handleConfirmCommand(ctx context.Context, user entity.UserContext, sessionID string, cmd entity.ConfirmCommand, onDelta func(delta string) error) (*entity.ChatResult, error) {
	var res *entity.ConfirmationResult
	var err error
	if cmd.Cancel {
		res, err = uc.confirmation.Cancel(ctx, sessionID, user.UserID, cmd.ActionID)
	} else {
		res, err = uc.confirmation.Confirm(ctx, sessionID, user.UserID, cmd.ActionID)
	}
	if err != nil {
		return nil, err
	}

	result := &entity.ChatResult{
		Reply:    res.Message,
		Intent:   entity.IntentNone,
		RecordID: res.RecordID,
	}
	return result, uc.emit(result.Reply, onDelta)
}

func (uc *ChatUsecase) answerServiceRequest(detected entity.Intent, onDelta func(delta string) error) (*entity.ChatResult, error) {
	reply := "This looks like a service request rather than something broken. " +
		"Please order it through the service catalog so it reaches the right fulfillment team. " +
		"If something is actually not working, describe the symptom and I can open an incident."
	result := &entity.ChatResult{Reply: reply, Intent: detected}
	return result, uc.emit(reply, onDelta)
}

// emit forwards a non-streamed reply through the stream callback when one is
// attached, so streaming clients always get the text as deltas.
func (uc *ChatUsecase) emit(reply string, onDelta func(delta string) error) error {
	if onDelta == nil {
		return nil
	}
	return onDelta(reply)
}

func (uc *ChatUsecase) persistTurn(ctx context.Context, sessionID, role, content string) {
	if content == "" {
		return
	}
	if _, err := uc.messages.CreateMessage(ctx, sessionID, role, content); err != nil {
		ctxzap.Warn(ctx, "failed to persist chat turn",
			zap.String("role", role),
			zap.Error(err),
		)
	}
}
