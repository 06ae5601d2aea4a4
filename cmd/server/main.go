// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loantracker/internal/common/config"
	"loantracker/internal/common/logger"
	"loantracker/internal/server"
	"loantracker/internal/service"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		log.Warn("operation failed, retrying",
			zap.String("operation", operationName),
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
		delay *= 2
	}
	return err
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting application server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	var (
		svc     service.ApplicationService
		cleanup func()
	)
	err = retryWithBackoff(func() error {
		var err error
		svc, cleanup, err = service.New(ctx, cfg, log)
		return err
	}, 10, 2*time.Second, zapLog, "service initialization")
	if err != nil {
		zapLog.Fatal("service failed after retries", zap.Error(err))
	}
	defer cleanup()
	zapLog.Info("Application service ready", zap.String("mode", cfg.Service.Mode))

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Router(svc, log),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
