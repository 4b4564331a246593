package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/keyboard"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/render"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/state"
)

// ChatHandler processes text messages and bot commands.
type ChatHandler struct {
	api    *tgbotapi.BotAPI
	states *state.Manager
	chat   ChatService
	logger *zap.Logger
}

func NewChatHandler(
	api *tgbotapi.BotAPI,
	states *state.Manager,
	chat ChatService,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		api:    api,
		states: states,
		chat:   chat,
		logger: logger,
	}
}

func (h *ChatHandler) Handle(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	if msg.Text == "" {
		h.send(chatID, "I can only process text messages.")
		return
	}

	session, err := h.states.GetOrCreate(ctx, chatID, userID)
	if err != nil {
		h.logger.Error("failed to resolve chat session",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		h.send(chatID, "Something went wrong. Please try again.")
		return
	}

	typing := NewTypingNotifier(h.api, chatID, h.logger)
	typing.Start(ctx)
	defer typing.Stop()

	result, err := h.chat.HandleMessage(ctx, &entity.ChatMessageRequest{
		SessionID: session.SessionID,
		UserID:    telegramUserID(userID),
		Message:   msg.Text,
	})
	if err != nil {
		h.logger.Error("chat turn failed",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("session_id", session.SessionID),
		)
		h.send(chatID, userFacingError(err))
		return
	}

	reply := tgbotapi.NewMessage(chatID, render.Reply(result))
	if result.ActionID != "" {
		reply.ReplyMarkup = keyboard.Confirmation(result.ActionID)
	}
	if _, err := h.api.Send(reply); err != nil {
		h.logger.Error("failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (h *ChatHandler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch msg.Command() {
	case "start", "help":
		h.send(chatID, render.Welcome())

	case "new":
		if _, err := h.states.Reset(ctx, chatID, userID); err != nil {
			h.logger.Error("failed to reset chat session",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			h.send(chatID, "Something went wrong. Please try again.")
			return
		}
		h.send(chatID, render.NewSession())

	case "pending":
		session, err := h.states.GetOrCreate(ctx, chatID, userID)
		if err != nil {
			h.logger.Error("failed to resolve chat session",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			h.send(chatID, "Something went wrong. Please try again.")
			return
		}
		pending := h.chat.PendingActions(session.SessionID, telegramUserID(userID))
		h.send(chatID, render.PendingList(pending))

	default:
		h.send(chatID, "Unknown command. Send /help to see what I can do.")
	}
}

func (h *ChatHandler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// telegramUserID namespaces telegram ids so they cannot collide with
// directory user ids coming through the HTTP API.
func telegramUserID(id int64) string {
	return fmt.Sprintf("tg:%d", id)
}
