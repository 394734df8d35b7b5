package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubReader struct {
	spot func(symbol, currency string) (PriceDTO, error)
	at   func(id string, ts int64, currency string) (PriceDTO, error)
}

func (s stubReader) Spot(_ context.Context, symbol, currency string) (PriceDTO, error) {
	return s.spot(symbol, currency)
}

func (s stubReader) At(_ context.Context, id string, ts int64, currency string) (PriceDTO, error) {
	return s.at(id, ts, currency)
}

func TestPriceReply(t *testing.T) {
	t.Parallel()

	b := newBot(stubReader{spot: func(symbol, currency string) (PriceDTO, error) {
		if symbol == "NOPE" {
			return PriceDTO{}, ErrPriceNotFound
		}
		if symbol == "FAIL" {
			return PriceDTO{}, errors.New("boom")
		}
		return PriceDTO{ID: symbol, Currency: "usd", Price: decimal.RequireFromString("65000.126")}, nil
	}}, time.Second, logger.Discard())

	if got := b.priceReply([]string{"BTC", "usd"}); got != "BTC | Текущая цена: 65000.13 USD" {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := b.priceReply([]string{"NOPE"}); got != translateBotError("NOT_FOUND_PRICE") {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := b.priceReply([]string{"FAIL"}); !strings.Contains(got, "Внутренняя ошибка") {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := b.priceReply(nil); !strings.HasPrefix(got, "Укажи символ") {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestPriceAtReply(t *testing.T) {
	t.Parallel()

	b := newBot(stubReader{at: func(id string, ts int64, currency string) (PriceDTO, error) {
		return PriceDTO{ID: id, Currency: currency, Price: decimal.RequireFromString("0.000012345678912"), Timestamp: time.Unix(ts, 0)}, nil
	}}, time.Second, logger.Discard())

	got := b.priceAtReply([]string{"PEPE", "1700000000", "usd"})
	want := "PEPE | Цена на 2023-11-14T22:13:20Z: 0.00001235 USD"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := b.priceAtReply([]string{"PEPE", "yesterday"}); got != "Некорректный запрос" {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := b.priceAtReply([]string{"PEPE"}); !strings.HasPrefix(got, "Формат") {
		t.Fatalf("unexpected reply %q", got)
	}
}
