package ratelimit

import (
	"context"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestsPerMinute = 10
	// FallbackInterval - если настройки не прочитались
	FallbackInterval = 6 * time.Second
)

// Gate - общий для процесса ограничитель запросов к CoinGecko.
// Между двумя отпущенными вызовами проходит не меньше interval.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// IntervalFor - floor(60 / rpm) секунд; rpm <= 0 считается как 10
func IntervalFor(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return time.Duration(60/requestsPerMinute) * time.Second
}

func NewGate(requestsPerMinute int) *Gate {
	return NewGateWithInterval(IntervalFor(requestsPerMinute))
}

// NewGateWithInterval - interval <= 0 отключает ожидание
func NewGateWithInterval(interval time.Duration) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

func (g *Gate) Interval() time.Duration { return g.interval }

// Acquire - блокирует до своей очереди; ошибка только при отмене ctx
func (g *Gate) Acquire(ctx context.Context) error {
	start := time.Now()
	err := g.limiter.Wait(ctx)
	metrics.GateWait(time.Since(start))
	return err
}
