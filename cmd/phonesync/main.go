package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inmo-sync/internal/config"
	"inmo-sync/internal/features/propsync"
	"inmo-sync/internal/logger"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// One-shot runner for the lead phone normalization backfill.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidatePodio(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.NewConsoleLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := podio.NewClientFromConfig(cfg, zl)
	service := propsync.NewBatchSyncService(client, cfg, zl)

	totals, err := service.RunPhones(ctx)
	if err != nil {
		zl.Error("phones sync aborted",
			zap.Error(err),
			zap.Int("processed", totals.Processed),
			zap.Int("succeeded", totals.Succeeded),
			zap.Int("failed", totals.Failed))
		os.Exit(1)
	}

	zl.Info("phones sync finished",
		zap.Int("processed", totals.Processed),
		zap.Int("succeeded", totals.Succeeded),
		zap.Int("failed", totals.Failed))
}
