package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/bot"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/handlers"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/state"
)

// sessionIdleTTL controls how long an inactive chat keeps its session
// before the next message starts a fresh one.
const sessionIdleTTL = 12 * time.Hour

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	chat handlers.ChatService,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	states := state.NewManager(state.NewMemoryStorage(sessionIdleTTL))
	chatHandler := handlers.NewChatHandler(api, states, chat, logger)
	cbHandler := handlers.NewCallbackHandler(api, states, chat, logger)

	b := bot.New(cfg, chatHandler, cbHandler, api, logger)

	logger.Info("telegram bot initialized successfully")
	return b, nil
}
