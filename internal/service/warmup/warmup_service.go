package warmup

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// Прогрев кэша: периодически запрашиваем текущие цены отслеживаемых символов,
// чтобы запросы пользователей чаще попадали в кэш

var ErrNoPrices = errors.New("no prices refreshed")

type Service interface {
	RefreshPrices(ctx context.Context) error
}

//go:generate mockgen -source=warmup_service.go -destination=mocks/mocks.go -package=mocks

type PriceGetter interface {
	GetPrice(ctx context.Context, symbol, quote string) (decimal.Decimal, bool)
}

type warmupService struct {
	prices   PriceGetter
	symbols  []string
	currency string
	logger   *slog.Logger
}

// NewService - конструктор сервиса прогрева; currency - валюта котировок
func NewService(prices PriceGetter, symbols []string, currency string, logger *slog.Logger) Service {
	tracked := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		tracked = append(tracked, s)
	}
	return &warmupService{
		prices:   prices,
		symbols:  tracked,
		currency: strings.ToLower(strings.TrimSpace(currency)),
		logger:   logger,
	}
}

// RefreshPrices - запрашивает цену каждого символа; ошибка только если не получилось ни одной
func (s *warmupService) RefreshPrices(ctx context.Context) error {
	if len(s.symbols) == 0 {
		s.logger.Debug("no symbols to warm up")
		return nil
	}

	refreshed := 0
	for _, sym := range s.symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		price, ok := s.prices.GetPrice(ctx, sym, s.currency)
		if !ok {
			s.logger.Warn("price unavailable", "symbol", sym, "currency", s.currency)
			continue // нет цены - пробуем следующие
		}
		refreshed++
		s.logger.Debug("price refreshed", "symbol", sym, "currency", s.currency, "price", price.String())
	}

	if refreshed == 0 {
		return ErrNoPrices
	}
	s.logger.Info("prices warmed up", "count", refreshed, "total", len(s.symbols))
	return nil
}
