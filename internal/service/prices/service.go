package prices

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"github.com/shopspring/decimal"
)

// Движок цен: сопоставление идентификаторов, кэш, восстановление исторической цены.
// Все операции возвращают (цена, true) или (ноль, false); ошибки только в логах.

type Service interface {
	// GetPrice - текущая цена символа (или контракта) в валюте quote
	GetPrice(ctx context.Context, symbol, quote string) (decimal.Decimal, bool)
	// GetPriceFiat - текущая цена в фиатной валюте из конфигурации
	GetPriceFiat(ctx context.Context, symbol string) (decimal.Decimal, bool)
	// GetPriceAt - цена на момент unixTs; пустой quote - фиатная валюта
	GetPriceAt(ctx context.Context, identifier string, unixTs int64, quote string) (decimal.Decimal, bool)
	// GetPriceAtIdentifier - то же, но с уже разобранным идентификатором (сеть + контракт)
	GetPriceAtIdentifier(ctx context.Context, id domain.Identifier, unixTs int64, quote string) (decimal.Decimal, bool)
}

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Provider - апстрим цен (CoinGecko). Rate gate применяется внутри.
type Provider interface {
	SimplePrice(ctx context.Context, ids []string, currencies []string) (map[string]map[string]decimal.Decimal, error)
	MarketChartRange(ctx context.Context, id, currency string, from, to int64) ([]domain.SeriesPoint, error)
	History(ctx context.Context, id string, day time.Time) (map[string]decimal.Decimal, error)
	ContractLookup(ctx context.Context, platform, address string) (string, error)
}

type MappingStore interface {
	FindByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error)
	FindBySymbol(ctx context.Context, symbol, network string) (domain.CanonicalMapping, error)
	Upsert(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, repository.UpsertOutcome, error)
}

type PricePointStore interface {
	GetPoint(ctx context.Context, canonicalID, currency string, bucket int64) (domain.CachedPricePoint, error)
	UpsertPoint(ctx context.Context, p domain.CachedPricePoint) error
}

// rangeWindow - полуширина окна запроса ряда вокруг бакета, в секундах
const rangeWindow = 3600

type Options struct {
	FiatCurrency    string
	Tokens          map[string]string // символ -> id, перекрывает встроенную таблицу
	Platforms       []string
	PlatformAliases map[string]string
	Networks        []string
	Cache           CacheConfig
}

type service struct {
	resolver *Resolver
	cache    *Cache
	provider Provider
	fiat     string
	logger   *slog.Logger
}

func NewService(opts Options, provider Provider, mappings MappingStore, points PricePointStore, logger *slog.Logger) Service {
	return NewServiceWithClock(opts, provider, mappings, points, NewRealClock(), logger)
}

// NewServiceWithClock - конструктор для тестов: позволяет подставить фиксированные "часы".
func NewServiceWithClock(opts Options, provider Provider, mappings MappingStore, points PricePointStore, clk Clock, logger *slog.Logger) Service {
	fiat := normalizeCurrency(opts.FiatCurrency)
	if fiat == "" {
		fiat = "eur"
	}
	resolver := NewResolver(
		NewSeedTable(opts.Tokens),
		NewAliasTable(opts.PlatformAliases, opts.Networks),
		opts.Platforms,
		mappings,
		provider,
		logger,
	)
	return &service{
		resolver: resolver,
		cache:    NewCache(opts.Cache, points, clk, logger),
		provider: provider,
		fiat:     fiat,
		logger:   logger,
	}
}

func normalizeCurrency(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func (s *service) quote(q string) string {
	if q = normalizeCurrency(q); q != "" {
		return q
	}
	return s.fiat
}

func (s *service) GetPriceFiat(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	return s.GetPrice(ctx, symbol, s.fiat)
}

func (s *service) GetPrice(ctx context.Context, symbol, quote string) (decimal.Decimal, bool) {
	id, ok := domain.ParseIdentifier(symbol)
	if !ok {
		return decimal.Decimal{}, false
	}
	canonical, ok := s.resolver.Resolve(ctx, id)
	if !ok {
		return decimal.Decimal{}, false
	}
	currency := s.quote(quote)

	if res, hit := s.cache.GetSpot(ctx, canonical, currency); hit {
		return res.Value()
	}

	res := domain.UnknownPrice()
	quotes, err := s.provider.SimplePrice(ctx, []string{canonical}, []string{currency})
	if err != nil {
		s.logger.Warn("spot price fetch failed", "coingecko_id", canonical, "currency", currency, "err", err)
		if notSent(ctx, err) {
			return decimal.Decimal{}, false
		}
	} else if p, ok := quotes[canonical][currency]; ok {
		res = domain.KnownPrice(p)
	}
	s.cache.PutSpot(ctx, canonical, currency, res)
	return res.Value()
}

func (s *service) GetPriceAt(ctx context.Context, identifier string, unixTs int64, quote string) (decimal.Decimal, bool) {
	id, ok := domain.ParseIdentifier(identifier)
	if !ok {
		return decimal.Decimal{}, false
	}
	return s.GetPriceAtIdentifier(ctx, id, unixTs, quote)
}

func (s *service) GetPriceAtIdentifier(ctx context.Context, id domain.Identifier, unixTs int64, quote string) (decimal.Decimal, bool) {
	if unixTs < 0 {
		return decimal.Decimal{}, false
	}
	canonical, ok := s.resolver.Resolve(ctx, id)
	if !ok {
		return decimal.Decimal{}, false
	}
	currency := s.quote(quote)
	bucket := domain.MinuteBucket(unixTs)

	if res, hit := s.cache.GetHistorical(ctx, canonical, currency, bucket); hit {
		return res.Value()
	}

	res, path, settled := s.reconstruct(ctx, canonical, currency, unixTs, bucket)
	metrics.Resolution("historical", path)
	if settled {
		s.cache.PutHistorical(ctx, canonical, currency, bucket, res)
	}
	return res.Value()
}

// reconstruct - ряд за ±час вокруг бакета, затем снимок за день, иначе неизвестно.
// settled=false: до апстрима не дошли, результат кэшировать нельзя.
func (s *service) reconstruct(ctx context.Context, canonical, currency string, unixTs, bucket int64) (domain.PriceResult, string, bool) {
	settled := true

	from := bucket - rangeWindow
	if from < 0 {
		from = 0
	}
	series, err := s.provider.MarketChartRange(ctx, canonical, currency, from, bucket+rangeWindow)
	if err != nil {
		s.logger.Debug("price range fetch failed", "coingecko_id", canonical, "currency", currency, "err", err)
		settled = settled && !notSent(ctx, err)
	}
	if p, ok := nearestPrice(series, unixTs*1000); ok {
		return domain.KnownPrice(p), "range", true
	}

	day := time.Unix(unixTs, 0).UTC()
	snapshot, err := s.provider.History(ctx, canonical, day)
	if err != nil {
		s.logger.Debug("daily history fetch failed", "coingecko_id", canonical, "day", day.Format(time.DateOnly), "err", err)
		settled = settled && !notSent(ctx, err)
	}
	if p, ok := snapshot[currency]; ok {
		return domain.KnownPrice(p), "history", true
	}

	if !settled {
		s.logger.Debug("historical price not settled", "coingecko_id", canonical, "currency", currency, "bucket", bucket)
		return domain.UnknownPrice(), "skipped", false
	}
	s.logger.Info("historical price unknown", "coingecko_id", canonical, "currency", currency, "bucket", bucket)
	return domain.UnknownPrice(), "unknown", true
}

// notSent - запрос не ушёл в апстрим или вызывающий уже отменил ctx
func notSent(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, domain.ErrUpstreamSkipped)
}
