package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stock-service/internal/app"
	"stock-service/pkg/logger"

	"github.com/joho/godotenv"
)

const envFilePath = ".env"

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	log := logger.Default()

	if err := godotenv.Load(envFilePath); err != nil {
		log.Info(".env file not found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	service, err := app.NewService(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize service")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- service.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server stopped unexpectedly")
		}
		return
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), service.ShutdownTimeout())
	defer cancel()

	if err := service.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("server stopped")
}
