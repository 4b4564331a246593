package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/handlers"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram/middleware"
)

// Middleware processes an update before it reaches a handler.
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	chatHandler *handlers.ChatHandler
	cbHandler   *handlers.CallbackHandler
	middlewares []Middleware
	logger      *zap.Logger
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	chatHandler *handlers.ChatHandler,
	cbHandler *handlers.CallbackHandler,
	api *tgbotapi.BotAPI,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		api:         api,
		cfg:         cfg,
		chatHandler: chatHandler,
		cbHandler:   cbHandler,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}

	// Middleware runs outermost first
	b.middlewares = []Middleware{
		middleware.NewRecoveryMiddleware(logger, api),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
	}

	return b
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot",
		zap.String("username", b.api.Self.UserName),
		zap.Int64("id", b.api.Self.ID),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Build the middleware chain around the dispatcher
	next := func(u tgbotapi.Update) {
		b.dispatch(ctx, u)
	}
	for i := len(b.middlewares) - 1; i >= 0; i-- {
		mw := b.middlewares[i]
		inner := next
		next = func(u tgbotapi.Update) {
			mw.Handle(u, inner)
		}
	}
	next(update)
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.cbHandler.Handle(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.chatHandler.Handle(ctx, update.Message)
	}
}
