package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/warmup"
)

type Scheduler struct {
	warmup   warmup.Service
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler - конструктор планировщика прогрева кэша цен
func NewScheduler(warmupService warmup.Service, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		warmup:   warmupService,
		interval: interval,
		logger:   logger,
	}
}

// Start - запускает периодическое выполнение задачи до остановки контекста
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("warmup scheduler started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// первый запуск сразу
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("warmup scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if err := s.warmup.RefreshPrices(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("tick: warmup failed", slog.Any("err", err))
		return
	}
	s.logger.Debug("tick: warmup completed", slog.Duration("took", time.Since(start)))
}
