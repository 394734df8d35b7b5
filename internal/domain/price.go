package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUpstreamSkipped - запрос к CoinGecko не был отправлен (rate gate отказал
// или вызывающий ушёл); такой отказ не означает, что цены нет
var ErrUpstreamSkipped = errors.New("upstream request not sent")

// PriceResult - закэшированный или полученный результат: известная цена
// или подтверждённо неизвестная (попытка была, цены нет).
type PriceResult struct {
	Price decimal.Decimal
	Known bool
}

func KnownPrice(p decimal.Decimal) PriceResult { return PriceResult{Price: p, Known: true} }

func UnknownPrice() PriceResult { return PriceResult{} }

// Value - цена и признак того, что она известна
func (r PriceResult) Value() (decimal.Decimal, bool) {
	return r.Price, r.Known
}

// CachedPricePoint - мемоизированная цена для (canonical id, валюта, минутный бакет)
type CachedPricePoint struct {
	CanonicalID string
	Currency    string
	Bucket      int64               // UNIX-время, округлённое вниз до минуты
	Price       decimal.NullDecimal // Valid=false - confirmed unknown
	FetchedAt   time.Time
}

// NewPricePoint - строит запись кэша из результата
func NewPricePoint(canonicalID, currency string, bucket int64, res PriceResult, fetchedAt time.Time) CachedPricePoint {
	return CachedPricePoint{
		CanonicalID: canonicalID,
		Currency:    currency,
		Bucket:      bucket,
		Price:       decimal.NullDecimal{Decimal: res.Price, Valid: res.Known},
		FetchedAt:   fetchedAt,
	}
}

func (p CachedPricePoint) Result() PriceResult {
	if !p.Price.Valid {
		return UnknownPrice()
	}
	return KnownPrice(p.Price.Decimal)
}

// SeriesPoint - одна точка ценового ряда (время в миллисекундах)
type SeriesPoint struct {
	TimestampMs int64
	Price       decimal.Decimal
}

// MinuteBucket - UNIX-время в секундах, округлённое вниз до минуты
func MinuteBucket(unix int64) int64 {
	rem := unix % 60
	if rem < 0 {
		rem += 60
	}
	return unix - rem
}
