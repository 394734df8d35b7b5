package mappings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
)

// Администрирование сопоставлений токенов и первичное заполнение таблицы

// ListLimit - сколько записей максимум отдаёт List
const ListLimit = 200

type Service interface {
	// List - последние записи, новые сверху; пустой symbol - все
	List(ctx context.Context, symbol string) ([]domain.CanonicalMapping, error)
	GetByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error)
	Create(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Update(ctx context.Context, id int64, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Delete(ctx context.Context, id int64) error
	// Seed - идемпотентно записывает встроенные символы и известные контракты
	Seed(ctx context.Context) (SeedReport, error)
}

type Store interface {
	List(ctx context.Context, symbol string, limit int) ([]domain.CanonicalMapping, error)
	FindByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error)
	GetByID(ctx context.Context, id int64) (domain.CanonicalMapping, error)
	Create(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Update(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Delete(ctx context.Context, id int64) error
	Upsert(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, repository.UpsertOutcome, error)
}

type service struct {
	store   Store
	symbols map[string]string
	logger  *slog.Logger
}

// NewService - symbols: таблица символ -> CoinGecko id, которой заполняется БД при Seed
func NewService(store Store, symbols map[string]string, logger *slog.Logger) Service {
	return &service{
		store:   store,
		symbols: symbols,
		logger:  logger,
	}
}

func (s *service) List(ctx context.Context, symbol string) ([]domain.CanonicalMapping, error) {
	filter := domain.CanonicalMapping{Symbol: symbol}.Normalize().Symbol
	items, err := s.store.List(ctx, filter, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	if items == nil {
		items = []domain.CanonicalMapping{}
	}
	return items, nil
}

func (s *service) GetByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error) {
	key := domain.CanonicalMapping{ContractAddress: contract, Network: network}.Normalize()
	if key.ContractAddress == "" {
		return domain.CanonicalMapping{}, fmt.Errorf("%w: contract is required", ErrInvalidMapping)
	}
	m, err := s.store.FindByContract(ctx, key.ContractAddress, key.Network)
	if err != nil {
		return domain.CanonicalMapping{}, s.storeError("get mapping by contract", err)
	}
	return m, nil
}

func (s *service) Create(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	m = m.Normalize()
	m.ID = 0
	if m.Source == "" {
		m.Source = domain.SourceManual
	}
	if err := m.Validate(); err != nil {
		return domain.CanonicalMapping{}, err
	}
	created, err := s.store.Create(ctx, m)
	if err != nil {
		return domain.CanonicalMapping{}, s.storeError("create mapping", err)
	}
	s.logger.Info("price mapping created", "id", created.ID, "symbol", created.Symbol,
		"contract", created.ContractAddress, "coingecko_id", created.CanonicalID)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.CanonicalMapping{}, s.storeError("get mapping", err)
	}
	m = m.Normalize()
	m.ID = id
	m.CreatedAt = existing.CreatedAt
	if m.Source == "" {
		m.Source = domain.SourceManual
	}
	if err := m.Validate(); err != nil {
		return domain.CanonicalMapping{}, err
	}
	updated, err := s.store.Update(ctx, m)
	if err != nil {
		return domain.CanonicalMapping{}, s.storeError("update mapping", err)
	}
	s.logger.Info("price mapping updated", "id", id, "coingecko_id", updated.CanonicalID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError("delete mapping", err)
	}
	s.logger.Info("price mapping deleted", "id", id)
	return nil
}

func (s *service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrMappingNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrMappingExists
	default:
		s.logger.Error(op+" failed", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
}

// SeedReport - итог сидирования
type SeedReport struct {
	Added   int
	Updated int
	Skipped int
}

func (r SeedReport) Total() int { return r.Added + r.Updated + r.Skipped }

// wellKnownContracts - контракты популярных токенов
var wellKnownContracts = []domain.CanonicalMapping{
	{Symbol: "USDC", Network: "ethereum", ContractAddress: "0xA0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", CanonicalID: "usd-coin"},
	{Symbol: "USDT", Network: "ethereum", ContractAddress: "0xdac17f958d2ee523a2206206994597c13d831ec7", CanonicalID: "tether"},
	{Symbol: "DAI", Network: "ethereum", ContractAddress: "0x6b175474e89094c44da98b954eedeac495271d0f", CanonicalID: "dai"},
	{Symbol: "WBTC", Network: "ethereum", ContractAddress: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", CanonicalID: "wrapped-bitcoin"},
	{Symbol: "WETH", Network: "ethereum", ContractAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", CanonicalID: "weth"},
	{Symbol: "USDC", Network: "polygon", ContractAddress: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", CanonicalID: "usd-coin"},
}

func (s *service) Seed(ctx context.Context) (SeedReport, error) {
	rows := make([]domain.CanonicalMapping, 0, len(s.symbols)+len(wellKnownContracts))

	// порядок стабильный, чтобы id в БД не зависели от обхода map
	symbols := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		rows = append(rows, domain.CanonicalMapping{Symbol: sym, CanonicalID: s.symbols[sym]})
	}
	rows = append(rows, wellKnownContracts...)

	var report SeedReport
	for _, m := range rows {
		m = m.Normalize()
		m.Source = domain.SourceSeed
		if err := m.Validate(); err != nil {
			s.logger.Warn("skip invalid seed mapping", "symbol", m.Symbol, "err", err)
			report.Skipped++
			continue
		}
		_, outcome, err := s.store.Upsert(ctx, m)
		if err != nil {
			return report, fmt.Errorf("seed mapping %s: %w", m.Symbol, err)
		}
		switch outcome {
		case repository.Inserted:
			report.Added++
		case repository.Updated:
			report.Updated++
		default:
			report.Skipped++
		}
	}

	s.logger.Info("price mappings seeded",
		"added", report.Added, "updated", report.Updated, "skipped", report.Skipped)
	return report, nil
}
