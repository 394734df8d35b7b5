package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/app"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/config"
	"github.com/NastyaGoryachaya/crypto-price-oracle/pkg/logger"
)

func main() {
	// context + signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, cfgErr := config.LoadConfig(config.FetchConfigPath())
	if cfgErr != nil {
		cfg = config.Default()
	}
	log := logger.New(&cfg.Logger)
	if cfgErr != nil {
		// без конфигурации работаем на значениях по умолчанию
		log.Warn("config load failed, using defaults", slog.String("error", cfgErr.Error()))
	}

	// build application
	application, err := app.NewApp(ctx, *cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// run application
	if err := application.Run(ctx); err != nil {
		log.Error("application stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("crypto-price-oracle stopped")
}
