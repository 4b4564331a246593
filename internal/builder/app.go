package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/repository"
	"github.com/servicedesk-ai/assistant-backend/internal/usecase/confirmation"
)

// App represents the application with all its components
type App struct {
	server         *http.Server
	db             *pgxpool.Pool
	cfg            *config.Config
	confirmationUC *confirmation.ConfirmationUsecase
	messages       repository.ChatMessageRepository
	logger         *zap.Logger
}

// Run starts the application and all its daemons
func (a *App) Run() error {
	daemonCtx, stopDaemons := context.WithCancel(context.Background())
	defer stopDaemons()

	go a.runExpirySweep(daemonCtx)
	go a.runMemoryPurge(daemonCtx)

	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	stopDaemons()

	// Graceful shutdown
	return a.shutdown()
}

// runExpirySweep periodically expires staged actions whose confirmation
// window has passed, so their audit trail records the timeout even when
// nobody asks about them again.
func (a *App) runExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.AgenticCfg.ExpirySweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.confirmationUC.SweepExpired(ctx); n > 0 {
				a.logger.Info("expired staged actions", zap.Int("count", n))
			}
		}
	}
}

// runMemoryPurge periodically deletes chat messages older than the
// configured retention window.
func (a *App) runMemoryPurge(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.MemoryPurgeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-a.cfg.MemoryRetention)
			n, err := a.messages.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				a.logger.Error("chat memory purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				a.logger.Info("purged old chat messages", zap.Int64("count", n))
			}
		}
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Closing database connections")
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
