package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/bot"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices"
)

// servicePriceReader - адаптер, который превращает движок цен в интерфейс бота PriceReader.
type servicePriceReader struct {
	svc  prices.Service
	fiat string
}

// NewPriceReader - конструктор адаптера; fiat - валюта по умолчанию для ответа
func NewPriceReader(svc prices.Service, fiat string) bot.PriceReader {
	return servicePriceReader{svc: svc, fiat: strings.ToLower(strings.TrimSpace(fiat))}
}

func (a servicePriceReader) currency(c string) string {
	if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
		return c
	}
	return a.fiat
}

func (a servicePriceReader) Spot(ctx context.Context, symbol, currency string) (bot.PriceDTO, error) {
	cur := a.currency(currency)
	p, ok := a.svc.GetPrice(ctx, symbol, cur)
	if !ok {
		return bot.PriceDTO{}, bot.ErrPriceNotFound
	}
	return bot.PriceDTO{ID: strings.ToUpper(symbol), Currency: cur, Price: p}, nil
}

func (a servicePriceReader) At(ctx context.Context, identifier string, unixTs int64, currency string) (bot.PriceDTO, error) {
	cur := a.currency(currency)
	p, ok := a.svc.GetPriceAt(ctx, identifier, unixTs, cur)
	if !ok {
		return bot.PriceDTO{}, bot.ErrPriceNotFound
	}
	return bot.PriceDTO{
		ID:        identifier,
		Currency:  cur,
		Price:     p,
		Timestamp: time.Unix(unixTs, 0).UTC(),
	}, nil
}
