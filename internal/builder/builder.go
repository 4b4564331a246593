package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/api"
	actionsapi "github.com/servicedesk-ai/assistant-backend/internal/api/actions"
	chatapi "github.com/servicedesk-ai/assistant-backend/internal/api/chat"
	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/integration/llm"
	"github.com/servicedesk-ai/assistant-backend/internal/integration/ticketing"
	"github.com/servicedesk-ai/assistant-backend/internal/integration/vectorstore"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/formatter"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/intent"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/ratelimit"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/rebac"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/rewrite"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/validation"
	"github.com/servicedesk-ai/assistant-backend/internal/repository"
	"github.com/servicedesk-ai/assistant-backend/internal/telegram"
	"github.com/servicedesk-ai/assistant-backend/internal/usecase/chat"
	"github.com/servicedesk-ai/assistant-backend/internal/usecase/confirmation"
	"github.com/servicedesk-ai/assistant-backend/internal/usecase/retrieval"
)

// components holds the assistant core shared by the HTTP API and the
// Telegram bot front-ends.
type components struct {
	chatUC         *chat.ChatUsecase
	confirmationUC *confirmation.ConfirmationUsecase
	limiter        *ratelimit.Limiter
	messages       repository.ChatMessageRepository
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	core, err := buildCore(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Setup API handlers
	chatHandler := chatapi.NewHandler(core.chatUC)
	actionsHandler := actionsapi.NewHandler(core.confirmationUC, core.limiter)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, actionsHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:         server,
		db:             db,
		cfg:            cfg,
		confirmationUC: core.confirmationUC,
		messages:       core.messages,
		logger:         logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	core, err := buildCore(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, core.chatUC, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// buildCore wires the assistant pipeline shared by both front-ends:
// repositories, external service connectors, the safety gates and the use
// cases on top of them.
func buildCore(cfg *config.Config, db *pgxpool.Pool, logger *zap.Logger) (*components, error) {
	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	messageRepo := repository.NewChatMessagePostgres(db)
	auditRepo := repository.NewActionAuditPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var vectorConnector retrieval.VectorStoreConnector
	var llmConnector llm.ChatConnector
	var ticketingConnector confirmation.TicketingConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		vectorConnector = vectorstore.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
		ticketingConnector = ticketing.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		vectorConnector = vectorstore.NewConnector(cfg.VectorStoreCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMCfg, logger)
		ticketingConnector = ticketing.NewConnector(cfg.TicketingCfg, logger)
	}

	// Initialize the normalization and safety gates
	var llmRewriter rewrite.LLMRewriter
	if cfg.RewriteCfg.UseLLM {
		llmRewriter = llmConnector
	}
	rewriter := rewrite.NewRewriter(rewrite.Config{
		Enabled:         cfg.RewriteCfg.Enabled,
		UseLLM:          cfg.RewriteCfg.UseLLM,
		ArabicExpansion: cfg.RewriteCfg.ArabicExpansion,
	}, llmRewriter)

	filter := rebac.NewFilter(rebac.Config{
		Enabled:             cfg.RetrievalCfg.RebacEnabled,
		MinScore:            cfg.RetrievalCfg.MinScore,
		PreferredSourceType: cfg.RetrievalCfg.PreferredSourceType,
	})

	validator := validation.NewValidator()
	classifier := intent.NewClassifier(intent.Config{
		ImplicitSignalMin: cfg.AgenticCfg.ImplicitSignalMin,
	})
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		MaxActionsPerHour: cfg.AgenticCfg.MaxActionsPerHour,
		MaxTrackedUsers:   cfg.AgenticCfg.MaxTrackedUsers,
	}, logger)
	logger.Info("Safety gates initialized")

	// Initialize use cases
	retrievalUC := retrieval.NewUsecase(cfg.RetrievalCfg, rewriter, filter, vectorConnector, logger)
	confirmationUC := confirmation.NewUsecase(cfg.AgenticCfg, ticketingConnector, auditRepo, limiter, logger)
	chatUC := chat.NewUsecase(
		retrievalUC,
		confirmationUC,
		llmConnector,
		classifier,
		validator,
		messageRepo,
		formatter.NewFactory(),
		logger,
	)
	logger.Info("Use cases initialized")

	return &components{
		chatUC:         chatUC,
		confirmationUC: confirmationUC,
		limiter:        limiter,
		messages:       messageRepo,
	}, nil
}
