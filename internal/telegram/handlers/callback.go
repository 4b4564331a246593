package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/keyboard"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/state"
)

// CallbackHandler processes confirm and cancel button presses. A button
// press is translated into the equivalent chat command so the decision
// goes through the same validation and audit path as a typed command.
type CallbackHandler struct {
	api    *tgbotapi.BotAPI
	states *state.Manager
	chat   ChatService
	logger *zap.Logger
}

func NewCallbackHandler(
	api *tgbotapi.BotAPI,
	states *state.Manager,
	chat ChatService,
	logger *zap.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		api:    api,
		states: states,
		chat:   chat,
		logger: logger,
	}
}

func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	userID := query.From.ID

	confirm, actionID, ok := keyboard.ParseDecision(query.Data)
	if !ok {
		h.answer(query.ID, "")
		return
	}

	session, err := h.states.GetOrCreate(ctx, chatID, userID)
	if err != nil {
		h.logger.Error("failed to resolve chat session",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		h.answer(query.ID, "Something went wrong")
		return
	}

	result, err := h.chat.HandleMessage(ctx, &entity.ChatMessageRequest{
		SessionID: session.SessionID,
		UserID:    telegramUserID(userID),
		Message:   keyboard.DecisionCommand(confirm, actionID),
	})
	if err != nil {
		h.logger.Error("action decision failed",
			zap.Error(err),
			zap.String("action_id", actionID),
			zap.Bool("confirm", confirm),
		)
		h.answer(query.ID, "")
		h.send(chatID, userFacingError(err))
		return
	}

	h.answer(query.ID, "")

	// Remove the buttons from the original preview so the decision
	// cannot be pressed twice.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := h.api.Request(edit); err != nil {
		h.logger.Warn("failed to clear keyboard",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.send(chatID, result.Reply)
}

func (h *CallbackHandler) answer(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.api.Request(cb); err != nil {
		h.logger.Warn("failed to answer callback query", zap.Error(err))
	}
}

func (h *CallbackHandler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
