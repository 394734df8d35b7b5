package prices_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/coingecko"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository/memory"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices"
	pricesmocks "github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices/mocks"
	"github.com/NastyaGoryachaya/crypto-price-oracle/pkg/logger"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

const contractA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newResolver(provider prices.Provider, mappings prices.MappingStore, networks []string) *prices.Resolver {
	return prices.NewResolver(
		prices.NewSeedTable(nil),
		prices.NewAliasTable(nil, networks),
		[]string{"ethereum", "polygon-pos", "binance-smart-chain"},
		mappings,
		provider,
		logger.Discard(),
	)
}

// Найден на polygon-pos -> в БД сеть "polygon"
func TestResolve_ContractAliasTranslated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum", "polygon"})

	gomock.InOrder(
		api.EXPECT().ContractLookup(gomock.Any(), "ethereum", contractA).Return("", coingecko.ErrNotListed),
		api.EXPECT().ContractLookup(gomock.Any(), "polygon-pos", contractA).Return("poly-token", nil),
	)

	id, ok := r.Resolve(ctx, domain.ContractIdentifier("", "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"))
	if !ok || id != "poly-token" {
		t.Fatalf("unexpected resolve result %q %v", id, ok)
	}

	m, err := store.FindByContract(ctx, contractA, "polygon")
	if err != nil {
		t.Fatalf("expected mapping on polygon: %v", err)
	}
	if m.Source != domain.SourceDiscovered || m.CanonicalID != "poly-token" {
		t.Fatalf("unexpected mapping %+v", m)
	}

	// второй раз - из БД, без апстрима
	if id, ok := r.Resolve(ctx, domain.ContractIdentifier("", contractA)); !ok || id != "poly-token" {
		t.Fatalf("expected stored mapping, got %q %v", id, ok)
	}
}

// Алиаса нет и сеть неизвестна -> сохраняется исходный slug
func TestResolve_RawSlugWithoutAlias(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := prices.NewResolver(prices.NewSeedTable(nil), prices.NewAliasTable(nil, nil),
		[]string{"fantom"}, store, api, logger.Discard())

	api.EXPECT().ContractLookup(gomock.Any(), "fantom", contractA).Return("ftm-token", nil)

	if _, ok := r.Resolve(ctx, domain.ContractIdentifier("", contractA)); !ok {
		t.Fatalf("expected resolved contract")
	}
	if _, err := store.FindByContract(ctx, contractA, "fantom"); err != nil {
		t.Fatalf("expected raw slug network: %v", err)
	}
}

// Объявленная сеть проверяется первой
func TestResolve_DeclaredNetworkProbedFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := pricesmocks.NewMockMappingStore(ctrl)
	r := newResolver(api, store, []string{"ethereum", "polygon", "bsc"})

	gomock.InOrder(
		store.EXPECT().FindByContract(gomock.Any(), contractA, "bsc").Return(domain.CanonicalMapping{}, repository.ErrNotFound),
		store.EXPECT().FindByContract(gomock.Any(), contractA, "").Return(domain.CanonicalMapping{}, repository.ErrNotFound),
	)
	api.EXPECT().ContractLookup(gomock.Any(), "binance-smart-chain", contractA).Return("bsc-token", nil)
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, repository.UpsertOutcome, error) {
			if m.Network != "bsc" || m.ContractAddress != contractA {
				t.Errorf("unexpected mapping %+v", m)
			}
			return m, repository.Inserted, nil
		})

	if id, ok := r.Resolve(ctx, domain.ContractIdentifier("bsc", contractA)); !ok || id != "bsc-token" {
		t.Fatalf("unexpected resolve result %q %v", id, ok)
	}
}

// Нигде не найден: ни ошибки, ни записи
func TestResolve_UnknownContract(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum", "polygon", "bsc"})

	api.EXPECT().ContractLookup(gomock.Any(), gomock.Any(), contractA).Return("", coingecko.ErrNotListed).Times(2)
	api.EXPECT().ContractLookup(gomock.Any(), "binance-smart-chain", contractA).Return("", errors.New("timeout"))

	if _, ok := r.Resolve(ctx, domain.ContractIdentifier("", contractA)); ok {
		t.Fatalf("expected unresolved contract")
	}
	if store.Len() != 0 {
		t.Fatalf("no mapping expected, got %d", store.Len())
	}
}

// Ошибка записи в БД не мешает вернуть найденный id
func TestResolve_UpsertFailureStillResolves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := pricesmocks.NewMockMappingStore(ctrl)
	r := newResolver(api, store, []string{"ethereum"})

	store.EXPECT().FindByContract(gomock.Any(), contractA, "").Return(domain.CanonicalMapping{}, errors.New("db down"))
	api.EXPECT().ContractLookup(gomock.Any(), "ethereum", contractA).Return("mock-token", nil)
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(domain.CanonicalMapping{}, repository.Unchanged, errors.New("db down"))

	if id, ok := r.Resolve(ctx, domain.ContractIdentifier("", contractA)); !ok || id != "mock-token" {
		t.Fatalf("unexpected resolve result %q %v", id, ok)
	}
}

// Символы: встроенная таблица, затем ручные записи в БД
func TestResolve_Symbol(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := newResolver(api, store, nil)

	if id, ok := r.Resolve(ctx, domain.SymbolIdentifier("avax")); !ok || id != "avalanche-2" {
		t.Fatalf("unexpected seed result %q %v", id, ok)
	}
	if _, ok := r.Resolve(ctx, domain.SymbolIdentifier("JUP")); ok {
		t.Fatalf("expected unresolved symbol")
	}
	if _, err := store.Create(ctx, domain.CanonicalMapping{Symbol: "JUP", CanonicalID: "jupiter-exchange-solana", Source: domain.SourceManual}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if id, ok := r.Resolve(ctx, domain.SymbolIdentifier("jup")); !ok || id != "jupiter-exchange-solana" {
		t.Fatalf("unexpected manual mapping result %q %v", id, ok)
	}
}

type countingProvider struct {
	lookups atomic.Int32
}

func (p *countingProvider) ContractLookup(context.Context, string, string) (string, error) {
	p.lookups.Add(1)
	time.Sleep(10 * time.Millisecond)
	return "mock-token", nil
}

func (p *countingProvider) SimplePrice(context.Context, []string, []string) (map[string]map[string]decimal.Decimal, error) {
	return nil, errors.New("not implemented")
}

func (p *countingProvider) MarketChartRange(context.Context, string, string, int64, int64) ([]domain.SeriesPoint, error) {
	return nil, errors.New("not implemented")
}

func (p *countingProvider) History(context.Context, string, time.Time) (map[string]decimal.Decimal, error) {
	return nil, errors.New("not implemented")
}

// N параллельных резолвов одного контракта -> одна строка сопоставления
func TestResolve_ConcurrentSingleMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &countingProvider{}
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum"})

	const n = 20
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Resolve(ctx, domain.ContractIdentifier("", contractA))
		}(i)
	}
	wg.Wait()

	for i, id := range results {
		if id != "mock-token" {
			t.Fatalf("caller %d got %q", i, id)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one mapping row, got %d", store.Len())
	}
	if api.lookups.Load() >= n {
		t.Fatalf("expected collapsed lookups, got %d", api.lookups.Load())
	}
}

// Контракт уже сохранён под другой сетью: объявленная сеть не ведёт к новому перебору
func TestResolve_DeclaredNetworkFallsBackToStoredMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum", "polygon", "bsc"})

	if _, _, err := store.Upsert(ctx, domain.CanonicalMapping{
		Network: "ethereum", ContractAddress: contractA, CanonicalID: "eth-token", Source: domain.SourceDiscovered,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 3; i++ {
		if id, ok := r.Resolve(ctx, domain.ContractIdentifier("polygon", contractA)); !ok || id != "eth-token" {
			t.Fatalf("unexpected resolve result %q %v", id, ok)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("expected one mapping row, got %d", store.Len())
	}
}

// Первый поиск висит, пока его ctx не отменят; дальше отвечает сразу
type stallingProvider struct {
	countingProvider
	started chan struct{}
}

func (p *stallingProvider) ContractLookup(ctx context.Context, _, _ string) (string, error) {
	if p.lookups.Add(1) == 1 {
		close(p.started)
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "mock-token", nil
}

// Отмена первого вызывающего не оставляет остальных без ответа
func TestResolve_CancelledLeaderDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	api := &stallingProvider{started: make(chan struct{})}
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum"})
	id := domain.ContractIdentifier("", contractA)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderOK := make(chan bool, 1)
	go func() {
		_, ok := r.Resolve(leaderCtx, id)
		leaderOK <- ok
	}()
	<-api.started

	type result struct {
		id string
		ok bool
	}
	waiter := make(chan result, 1)
	go func() {
		got, ok := r.Resolve(context.Background(), id)
		waiter <- result{got, ok}
	}()
	// даём второму вызову присоединиться к идущему поиску
	time.Sleep(50 * time.Millisecond)
	cancel()

	if <-leaderOK {
		t.Fatalf("cancelled caller must not resolve")
	}
	res := <-waiter
	if !res.ok || res.id != "mock-token" {
		t.Fatalf("waiter got %q %v", res.id, res.ok)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one mapping row, got %d", store.Len())
	}
}

// Rate gate не пустил запрос: контракт не считается ненайденным, перебор не продолжается
func TestResolve_GateRefusalStopsProbing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	store := memory.NewMappingStore()
	r := newResolver(api, store, []string{"ethereum", "polygon", "bsc"})

	refused := fmt.Errorf("rate gate: %w: %w", domain.ErrUpstreamSkipped, errors.New("would exceed context deadline"))
	// первая попытка и повтор, по одному вызову: остальные платформы не трогаем
	api.EXPECT().ContractLookup(gomock.Any(), "ethereum", contractA).Return("", refused).Times(2)

	if _, ok := r.Resolve(ctx, domain.ContractIdentifier("", contractA)); ok {
		t.Fatalf("expected unresolved contract")
	}
	if store.Len() != 0 {
		t.Fatalf("no mapping expected, got %d", store.Len())
	}
}
