package prices_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository/memory"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices"
	pricesmocks "github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices/mocks"
	"github.com/NastyaGoryachaya/crypto-price-oracle/pkg/logger"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 3, 10, 12, 30, 15, 0, time.UTC)

func testOptions() prices.Options {
	return prices.Options{
		FiatCurrency: "EUR",
		Platforms:    []string{"ethereum", "polygon-pos", "binance-smart-chain"},
		Networks:     []string{"ethereum", "polygon", "bsc"},
	}
}

func newService(provider prices.Provider) (prices.Service, *memory.MappingStore, *memory.PriceCacheStore) {
	mappings := memory.NewMappingStore()
	points := memory.NewPriceCacheStore()
	svc := prices.NewServiceWithClock(testOptions(), provider, mappings, points, fixedClock{t: testNow}, logger.Discard())
	return svc, mappings, points
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Повторный запрос того же бакета отдаётся из кэша без обращения к апстриму
func TestGetPriceAt_CacheHitIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	ts := int64(1_700_000_030)
	bucket := domain.MinuteBucket(ts)
	api.EXPECT().
		MarketChartRange(gomock.Any(), "bitcoin", "usd", bucket-3600, bucket+3600).
		Return([]domain.SeriesPoint{{TimestampMs: ts * 1000, Price: dec("35000.5")}}, nil).
		Times(1)

	first, ok := svc.GetPriceAt(ctx, "btc", ts, "USD")
	if !ok || !first.Equal(dec("35000.5")) {
		t.Fatalf("unexpected first result: %s %v", first, ok)
	}
	// тот же бакет, другая секунда
	second, ok := svc.GetPriceAt(ctx, "BTC", ts+20, "usd")
	if !ok || !second.Equal(first) {
		t.Fatalf("unexpected cached result: %s %v", second, ok)
	}
	if points.Len() != 1 {
		t.Fatalf("expected one persisted point, got %d", points.Len())
	}
}

// Ближайшая точка ряда к запрошенному времени
func TestGetPriceAt_NearestNeighbour(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, _ := newService(api)

	ts := int64(1_700_000_000)
	tms := ts * 1000
	api.EXPECT().
		MarketChartRange(gomock.Any(), "ethereum", "eur", gomock.Any(), gomock.Any()).
		Return([]domain.SeriesPoint{
			{TimestampMs: tms - 5000, Price: dec("1.23")},
			{TimestampMs: tms, Price: dec("1.5")},
			{TimestampMs: tms + 5000, Price: dec("1.4")},
		}, nil)

	got, ok := svc.GetPriceAt(ctx, "ETH", ts, "")
	if !ok || !got.Equal(dec("1.5")) {
		t.Fatalf("expected 1.5, got %s %v", got, ok)
	}
}

// Ряд пуст -> снимок за день
func TestGetPriceAt_FallsBackToDailyHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, _ := newService(api)

	ts := int64(1_700_000_000)
	gomock.InOrder(
		api.EXPECT().MarketChartRange(gomock.Any(), "solana", "usd", gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout")),
		api.EXPECT().History(gomock.Any(), "solana", time.Unix(ts, 0).UTC()).
			Return(map[string]decimal.Decimal{"usd": dec("56.7"), "eur": dec("52.1")}, nil),
	)

	got, ok := svc.GetPriceAt(ctx, "SOL", ts, "usd")
	if !ok || !got.Equal(dec("56.7")) {
		t.Fatalf("expected 56.7, got %s %v", got, ok)
	}
}

// Все уровни исчерпаны: неизвестность кэшируется, повторного похода в сеть нет
func TestGetPriceAt_ConfirmedUnknownIsCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	api.EXPECT().MarketChartRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.SeriesPoint{}, nil).Times(1)
	api.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom")).Times(1)

	ts := int64(1_600_000_000)
	if _, ok := svc.GetPriceAt(ctx, "DAI", ts, "usd"); ok {
		t.Fatalf("expected unknown price")
	}
	if _, ok := svc.GetPriceAt(ctx, "DAI", ts, "usd"); ok {
		t.Fatalf("expected unknown price on retry")
	}

	p, err := points.GetPoint(ctx, "dai", "usd", domain.MinuteBucket(ts))
	if err != nil {
		t.Fatalf("expected persisted unknown point: %v", err)
	}
	if p.Price.Valid {
		t.Fatalf("expected null price, got %s", p.Price.Decimal)
	}
}

// Окно запроса не уходит в отрицательное время
func TestGetPriceAt_RangeLowerBoundClamped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, _ := newService(api)

	api.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", "eur", int64(0), int64(60+3600)).
		Return([]domain.SeriesPoint{{TimestampMs: 0, Price: dec("0.01")}}, nil)

	if _, ok := svc.GetPriceAt(ctx, "BTC", 100, ""); !ok {
		t.Fatalf("expected price")
	}
}

// Нераспознанный символ: в апстрим не ходим
func TestGetPriceAt_UnknownSymbol(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, _ := newService(api)

	if _, ok := svc.GetPriceAt(ctx, "NOPE", 1_700_000_000, "usd"); ok {
		t.Fatalf("expected unresolved symbol")
	}
	if _, ok := svc.GetPriceAt(ctx, "bad id", 1_700_000_000, "usd"); ok {
		t.Fatalf("expected invalid identifier")
	}
	if _, ok := svc.GetPriceAt(ctx, "BTC", -5, "usd"); ok {
		t.Fatalf("expected negative timestamp to be rejected")
	}
}

// Spot: одна выборка, дальше кэш; фиат берётся из настроек
func TestGetPrice_SpotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	api.EXPECT().SimplePrice(gomock.Any(), []string{"ethereum"}, []string{"eur"}).
		Return(map[string]map[string]decimal.Decimal{"ethereum": {"eur": dec("2890.12")}}, nil).
		Times(1)

	got, ok := svc.GetPriceFiat(ctx, "ETH")
	if !ok || !got.Equal(dec("2890.12")) {
		t.Fatalf("unexpected price %s %v", got, ok)
	}
	got, ok = svc.GetPrice(ctx, "eth", "EUR")
	if !ok || !got.Equal(dec("2890.12")) {
		t.Fatalf("unexpected cached price %s %v", got, ok)
	}

	p, err := points.GetPoint(ctx, "ethereum", "eur", domain.MinuteBucket(testNow.Unix()))
	if err != nil || !p.Price.Valid {
		t.Fatalf("expected spot point in current bucket: %+v %v", p, err)
	}
}

// Ошибка апстрима для spot -> неизвестно, и это тоже кэшируется
func TestGetPrice_UpstreamFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, _ := newService(api)

	api.EXPECT().SimplePrice(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("429 too many requests")).Times(1)

	if _, ok := svc.GetPrice(ctx, "BTC", "usd"); ok {
		t.Fatalf("expected unknown")
	}
	if _, ok := svc.GetPrice(ctx, "BTC", "usd"); ok {
		t.Fatalf("expected cached unknown")
	}
}

// Ошибки хранилища не ломают ответ
func TestGetPriceAt_StoreErrorsSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	points := pricesmocks.NewMockPricePointStore(ctrl)
	svc := prices.NewServiceWithClock(testOptions(), api, memory.NewMappingStore(), points, fixedClock{t: testNow}, logger.Discard())

	points.EXPECT().GetPoint(gomock.Any(), "bitcoin", "usd", gomock.Any()).
		Return(domain.CachedPricePoint{}, errors.New("connection reset"))
	points.EXPECT().UpsertPoint(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))
	api.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", "usd", gomock.Any(), gomock.Any()).
		Return([]domain.SeriesPoint{{TimestampMs: 1_700_000_000_000, Price: dec("37000")}}, nil)

	got, ok := svc.GetPriceAt(ctx, "BTC", 1_700_000_000, "usd")
	if !ok || !got.Equal(dec("37000")) {
		t.Fatalf("unexpected result %s %v", got, ok)
	}
	// запись в память всё равно есть: второй вызов не трогает ни хранилище, ни апстрим
	if _, ok := svc.GetPriceAt(ctx, "BTC", 1_700_000_000, "usd"); !ok {
		t.Fatalf("expected memory hit")
	}
}

// Токены из конфигурации перекрывают встроенную таблицу
func TestGetPrice_ConfigTokensOverrideSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	opts := testOptions()
	opts.Tokens = map[string]string{"eth": "ethereum-wormhole", "PEPE": ""}
	svc := prices.NewServiceWithClock(opts, api, memory.NewMappingStore(), memory.NewPriceCacheStore(), fixedClock{t: testNow}, logger.Discard())

	api.EXPECT().SimplePrice(gomock.Any(), []string{"ethereum-wormhole"}, []string{"usd"}).
		Return(map[string]map[string]decimal.Decimal{"ethereum-wormhole": {"usd": dec("3000")}}, nil)
	api.EXPECT().SimplePrice(gomock.Any(), []string{"pepe"}, []string{"usd"}).
		Return(map[string]map[string]decimal.Decimal{}, nil)

	if _, ok := svc.GetPrice(ctx, "ETH", "usd"); !ok {
		t.Fatalf("expected overridden ETH price")
	}
	if _, ok := svc.GetPrice(ctx, "PEPE", "usd"); ok {
		t.Fatalf("expected unknown PEPE price")
	}
}

func gateRefused() error {
	return fmt.Errorf("rate gate: %w: %w", domain.ErrUpstreamSkipped, errors.New("would exceed context deadline"))
}

// Rate gate не пустил ни одного запроса: неизвестность не записывается, следующий вызов идёт в апстрим
func TestGetPriceAt_GateRefusalNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	ts := int64(1_700_000_000)
	gomock.InOrder(
		api.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", "usd", gomock.Any(), gomock.Any()).Return(nil, gateRefused()),
		api.EXPECT().History(gomock.Any(), "bitcoin", gomock.Any()).Return(nil, gateRefused()),
		api.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", "usd", gomock.Any(), gomock.Any()).
			Return([]domain.SeriesPoint{{TimestampMs: ts * 1000, Price: dec("37000")}}, nil),
	)

	if _, ok := svc.GetPriceAt(ctx, "BTC", ts, "usd"); ok {
		t.Fatalf("expected no price")
	}
	if points.Len() != 0 {
		t.Fatalf("nothing must be persisted, got %d points", points.Len())
	}

	got, ok := svc.GetPriceAt(ctx, "BTC", ts, "usd")
	if !ok || !got.Equal(dec("37000")) {
		t.Fatalf("expected fresh price, got %s %v", got, ok)
	}
}

// Ряд пуст, а до истории за день не дошли: это не подтверждённая неизвестность
func TestGetPriceAt_PartialRefusalNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	api.EXPECT().MarketChartRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.SeriesPoint{}, nil)
	api.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gateRefused())

	if _, ok := svc.GetPriceAt(ctx, "ETH", 1_700_000_000, "usd"); ok {
		t.Fatalf("expected no price")
	}
	if points.Len() != 0 {
		t.Fatalf("nothing must be persisted, got %d points", points.Len())
	}
}

// Вызывающий ушёл: ответа апстрима нет, в кэш ничего не пишем
func TestGetPriceAt_CancelledContextNotCached(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api.EXPECT().MarketChartRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string, _, _ int64) ([]domain.SeriesPoint, error) {
			return nil, ctx.Err()
		})
	api.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ time.Time) (map[string]decimal.Decimal, error) {
			return nil, ctx.Err()
		})

	if _, ok := svc.GetPriceAt(ctx, "BTC", 1_700_000_000, "usd"); ok {
		t.Fatalf("expected no price")
	}
	if points.Len() != 0 {
		t.Fatalf("nothing must be persisted, got %d points", points.Len())
	}
}

// Spot: отказ rate gate не кэшируется ни в памяти, ни в хранилище
func TestGetPrice_GateRefusalNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	api := pricesmocks.NewMockProvider(ctrl)
	svc, _, points := newService(api)

	gomock.InOrder(
		api.EXPECT().SimplePrice(gomock.Any(), []string{"bitcoin"}, []string{"usd"}).Return(nil, gateRefused()),
		api.EXPECT().SimplePrice(gomock.Any(), []string{"bitcoin"}, []string{"usd"}).
			Return(map[string]map[string]decimal.Decimal{"bitcoin": {"usd": dec("65000")}}, nil),
	)

	if _, ok := svc.GetPrice(ctx, "BTC", "usd"); ok {
		t.Fatalf("expected no price")
	}
	if points.Len() != 0 {
		t.Fatalf("nothing must be persisted, got %d points", points.Len())
	}
	got, ok := svc.GetPrice(ctx, "BTC", "usd")
	if !ok || !got.Equal(dec("65000")) {
		t.Fatalf("expected fresh price, got %s %v", got, ok)
	}
}
