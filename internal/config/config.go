package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/servicedesk-ai/assistant-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	VectorStoreCfg VectorStoreConnectorConfig `envPrefix:"VECTORSTORE_"`
	LLMCfg         LLMConnectorConfig         `envPrefix:"LLM_"`
	TicketingCfg   TicketingConnectorConfig   `envPrefix:"TICKETING_"`

	// Retrieval configuration
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`

	// Query rewrite configuration
	RewriteCfg RewriteConfig `envPrefix:"REWRITE_"`

	// Agentic (write action) configuration
	AgenticCfg AgenticConfig `envPrefix:"AGENTIC_"`

	// Chat memory retention
	MemoryRetention  time.Duration `env:"CHAT_MEMORY_RETENTION" envDefault:"720h"`
	MemoryPurgeEvery time.Duration `env:"CHAT_MEMORY_PURGE_EVERY" envDefault:"1h"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Telegram bot configuration (optional front-end)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// VectorStoreConnectorConfig configures the similarity-search service client.
type VectorStoreConnectorConfig struct {
	HTTPClientConfig
	SearchEndpoint string               `env:"SEARCH_ENDPOINT,notEmpty"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConnectorConfig configures the chat-completion service client.
type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatEndpoint   string               `env:"CHAT_ENDPOINT,notEmpty"`
	StreamEndpoint string               `env:"STREAM_ENDPOINT,notEmpty"`
	StreamTimeout  time.Duration        `env:"STREAM_TIMEOUT" envDefault:"120s"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// TicketingConnectorConfig configures the ticketing system client.
type TicketingConnectorConfig struct {
	HTTPClientConfig
	IncidentEndpoint  string               `env:"INCIDENT_ENDPOINT,notEmpty"`
	WorkOrderEndpoint string               `env:"WORKORDER_ENDPOINT,notEmpty"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// RetrievalConfig bounds and tunes the retrieval pipeline.
type RetrievalConfig struct {
	MaxResults          int     `env:"MAX_RESULTS" envDefault:"5"`
	MinScore            float32 `env:"MIN_SCORE" envDefault:"0.5"`
	RebacEnabled        bool    `env:"REBAC_ENABLED" envDefault:"true"`
	PreferredSourceType string  `env:"PREFERRED_SOURCE_TYPE" envDefault:"KnowledgeArticle"`
}

// RewriteConfig tunes the query normalizer.
type RewriteConfig struct {
	Enabled         bool `env:"ENABLED" envDefault:"true"`
	UseLLM          bool `env:"USE_LLM" envDefault:"false"`
	ArabicExpansion bool `env:"ARABIC_EXPANSION" envDefault:"true"`
}

// AgenticConfig tunes staging, confirmation and throttling of write actions.
type AgenticConfig struct {
	Enabled             bool          `env:"ENABLED" envDefault:"true"`
	ConfirmationTimeout time.Duration `env:"CONFIRMATION_TIMEOUT" envDefault:"5m"`
	MaxActionsPerHour   int           `env:"MAX_ACTIONS_PER_HOUR" envDefault:"10"`
	MaxTrackedUsers     int           `env:"MAX_TRACKED_USERS" envDefault:"10000"`
	MaxPendingActions   int           `env:"MAX_PENDING_ACTIONS" envDefault:"10000"`
	ImplicitSignalMin   int           `env:"IMPLICIT_SIGNAL_MIN" envDefault:"2"`
	ExpirySweepEvery    time.Duration `env:"EXPIRY_SWEEP_EVERY" envDefault:"30s"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "local":
		return ".env.local"
	case "prod":
		return ".env.prod"
	default:
		return ".env." + environment
	}
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.RetrievalCfg.MaxResults < 1 || cfg.RetrievalCfg.MaxResults > 50 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_MAX_RESULTS must be between 1 and 50, got %d", cfg.RetrievalCfg.MaxResults))
	}

	if cfg.RetrievalCfg.MinScore < 0 || cfg.RetrievalCfg.MinScore > 1 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_MIN_SCORE must be between 0 and 1, got %f", cfg.RetrievalCfg.MinScore))
	}

	if cfg.AgenticCfg.MaxActionsPerHour < 1 {
		errs = append(errs, fmt.Sprintf("AGENTIC_MAX_ACTIONS_PER_HOUR must be positive, got %d", cfg.AgenticCfg.MaxActionsPerHour))
	}

	if cfg.AgenticCfg.ImplicitSignalMin < 1 {
		errs = append(errs, fmt.Sprintf("AGENTIC_IMPLICIT_SIGNAL_MIN must be positive, got %d", cfg.AgenticCfg.ImplicitSignalMin))
	}

	if cfg.AgenticCfg.ConfirmationTimeout < time.Minute || cfg.AgenticCfg.ConfirmationTimeout > time.Hour {
		errs = append(errs, fmt.Sprintf("AGENTIC_CONFIRMATION_TIMEOUT must be between 1m and 1h, got %s", cfg.AgenticCfg.ConfirmationTimeout))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", errs[0])
	}

	return nil
}
