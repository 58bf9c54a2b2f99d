package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prperemyshlev/videotube/internal/app"
	"github.com/prperemyshlev/videotube/internal/config"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}

	logger := infra.Logger()
	logger.Info("Infrastructure ready",
		zap.String("env", cfg.Env),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.Bool("migrate", cfg.Postgres.Migrate),
	)

	application := app.NewApp(infra, cfg)

	if err := application.Run(ctx); err != nil {
		logger.Fatal("Application failed", zap.Error(err))
	}
}
