package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSpotTTL       = 60 * time.Second
	DefaultHistoricalTTL = time.Hour
	DefaultCacheSize     = 10000
)

type CacheConfig struct {
	Size          int
	SpotTTL       time.Duration
	HistoricalTTL time.Duration
}

// Cache - двухуровневый кэш цен: LRU в памяти с TTL + постоянное хранилище по минутным бакетам.
// Ошибки хранилища глотаются: чтение -> промах, запись -> только лог.
type Cache struct {
	spot   *expirable.LRU[string, domain.PriceResult]
	hist   *expirable.LRU[string, domain.PriceResult]
	store  PricePointStore
	clock  Clock
	logger *slog.Logger
}

func NewCache(cfg CacheConfig, store PricePointStore, clock Clock, logger *slog.Logger) *Cache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.SpotTTL <= 0 {
		cfg.SpotTTL = DefaultSpotTTL
	}
	if cfg.HistoricalTTL <= 0 {
		cfg.HistoricalTTL = DefaultHistoricalTTL
	}
	return &Cache{
		spot:   expirable.NewLRU[string, domain.PriceResult](cfg.Size, nil, cfg.SpotTTL),
		hist:   expirable.NewLRU[string, domain.PriceResult](cfg.Size, nil, cfg.HistoricalTTL),
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func spotKey(id, currency string) string {
	return id + ":" + currency
}

func histKey(id, currency string, bucket int64) string {
	return fmt.Sprintf("hist:%s:%s:%d", id, currency, bucket)
}

// GetSpot - текущая цена; второй результат false - в кэше нет записи
func (c *Cache) GetSpot(ctx context.Context, id, currency string) (domain.PriceResult, bool) {
	if res, ok := c.spot.Get(spotKey(id, currency)); ok {
		metrics.CacheLookup("spot", "memory")
		return res, true
	}
	bucket := domain.MinuteBucket(c.clock.Now().Unix())
	res, ok := c.load(ctx, id, currency, bucket)
	if !ok {
		metrics.CacheLookup("spot", "miss")
		return domain.PriceResult{}, false
	}
	metrics.CacheLookup("spot", "store")
	c.spot.Add(spotKey(id, currency), res)
	return res, true
}

// PutSpot - пишет в бакет текущей минуты и обновляет запись в памяти
func (c *Cache) PutSpot(ctx context.Context, id, currency string, res domain.PriceResult) {
	now := c.clock.Now()
	c.save(ctx, domain.NewPricePoint(id, currency, domain.MinuteBucket(now.Unix()), res, now))
	c.spot.Add(spotKey(id, currency), res)
}

func (c *Cache) GetHistorical(ctx context.Context, id, currency string, bucket int64) (domain.PriceResult, bool) {
	key := histKey(id, currency, bucket)
	if res, ok := c.hist.Get(key); ok {
		metrics.CacheLookup("historical", "memory")
		return res, true
	}
	res, ok := c.load(ctx, id, currency, bucket)
	if !ok {
		metrics.CacheLookup("historical", "miss")
		return domain.PriceResult{}, false
	}
	metrics.CacheLookup("historical", "store")
	c.hist.Add(key, res)
	return res, true
}

func (c *Cache) PutHistorical(ctx context.Context, id, currency string, bucket int64, res domain.PriceResult) {
	c.save(ctx, domain.NewPricePoint(id, currency, bucket, res, c.clock.Now()))
	c.hist.Add(histKey(id, currency, bucket), res)
}

func (c *Cache) load(ctx context.Context, id, currency string, bucket int64) (domain.PriceResult, bool) {
	p, err := c.store.GetPoint(ctx, id, currency, bucket)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.logger.Warn("price cache read failed", "coingecko_id", id, "currency", currency, "bucket", bucket, "err", err)
		}
		return domain.PriceResult{}, false
	}
	return p.Result(), true
}

func (c *Cache) save(ctx context.Context, p domain.CachedPricePoint) {
	if err := c.store.UpsertPoint(ctx, p); err != nil {
		c.logger.Warn("price cache write failed", "coingecko_id", p.CanonicalID, "currency", p.Currency, "bucket", p.Bucket, "err", err)
	}
}
