package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/ports/errcode"
	"gopkg.in/telebot.v4"
)

const helpText = "Привет! Доступные команды:\n" +
	"/price {symbol} [валюта] - текущая цена (BTC, ETH, ...)\n" +
	"/priceat {symbol|0x...} {unix} [валюта] - цена на момент времени"

// handleStart - отправляет справку по доступным командам бота
func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send(helpText)
}

func (b *Bot) handlePrice(c telebot.Context) error {
	return c.Send(b.priceReply(c.Args()))
}

func (b *Bot) handlePriceAt(c telebot.Context) error {
	return c.Send(b.priceAtReply(c.Args()))
}

// priceReply - /price SYMBOL [currency]
func (b *Bot) priceReply(args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return "Укажи символ: /price BTC или /price BTC usd"
	}
	currency := ""
	if len(args) == 2 {
		currency = args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	p, err := b.prices.Spot(ctx, args[0], currency)
	if err != nil {
		return b.replyError("/price", err)
	}
	return formatPrice(p)
}

// priceAtReply - /priceat ID UNIX [currency]
func (b *Bot) priceAtReply(args []string) string {
	if len(args) < 2 || len(args) > 3 {
		return "Формат: /priceat BTC 1700000000 [usd]"
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
	if err != nil || ts < 0 {
		return translateBotError(errcode.BadRequest)
	}
	currency := ""
	if len(args) == 3 {
		currency = args[2]
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	p, err := b.prices.At(ctx, args[0], ts, currency)
	if err != nil {
		return b.replyError("/priceat", err)
	}
	return formatPrice(p)
}

func (b *Bot) replyError(cmd string, err error) string {
	if errors.Is(err, ErrPriceNotFound) {
		return translateBotError(errcode.NotFoundPrice)
	}
	b.logger.Error("bot: command failed", slog.String("cmd", cmd), slog.String("error", err.Error()))
	return translateBotError(errcode.Internal)
}
