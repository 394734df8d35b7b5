package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PriceCacheRepo - постоянный уровень кэша цен (таблица price_cache).
type PriceCacheRepo struct {
	db *pgxpool.Pool
}

func NewPriceCacheRepository(db *pgxpool.Pool) *PriceCacheRepo {
	return &PriceCacheRepo{db: db}
}

// GetPoint - запись кэша по ключу; нет строки -> ErrNotFound
func (r *PriceCacheRepo) GetPoint(ctx context.Context, canonicalID, currency string, bucket int64) (domain.CachedPricePoint, error) {
	query := `
		SELECT price::text, fetched_at
		FROM price_cache
		WHERE coingecko_id = $1 AND vs_currency = $2 AND ts_minute = $3`

	p := domain.CachedPricePoint{CanonicalID: canonicalID, Currency: currency, Bucket: bucket}
	var price *string
	err := r.db.QueryRow(ctx, query, canonicalID, currency, bucket).Scan(&price, &p.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CachedPricePoint{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.CachedPricePoint{}, fmt.Errorf("get price point: %w", err)
	}
	if price != nil {
		d, err := decimal.NewFromString(*price)
		if err != nil {
			return domain.CachedPricePoint{}, fmt.Errorf("parse cached price %q: %w", *price, err)
		}
		p.Price = decimal.NewNullDecimal(d)
	}
	return p, nil
}

// UpsertPoint - идемпотентная запись (последний писатель побеждает)
func (r *PriceCacheRepo) UpsertPoint(ctx context.Context, p domain.CachedPricePoint) error {
	query := `
		INSERT INTO price_cache (coingecko_id, vs_currency, ts_minute, price, fetched_at)
		VALUES ($1, $2, $3, CAST($4::text AS NUMERIC), $5)
		ON CONFLICT (coingecko_id, vs_currency, ts_minute)
		DO UPDATE SET price = EXCLUDED.price, fetched_at = EXCLUDED.fetched_at`

	var price *string
	if p.Price.Valid {
		s := p.Price.Decimal.String()
		price = &s
	}
	if _, err := r.db.Exec(ctx, query, p.CanonicalID, p.Currency, p.Bucket, price, p.FetchedAt); err != nil {
		return fmt.Errorf("upsert price point: %w", err)
	}
	return nil
}
