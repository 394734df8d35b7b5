package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/telebot.v4"
)

var ErrPriceNotFound = errors.New("price not found")

// Config - конфигурация бота
type Config struct {
	Token           string
	LongPollTimeout time.Duration
	// RequestTimeout - сколько ждём движок цен на одну команду
	RequestTimeout time.Duration
}

// PriceDTO - цена для ответа в чат
type PriceDTO struct {
	ID        string
	Currency  string
	Price     decimal.Decimal
	Timestamp time.Time // нулевое - текущая цена
}

// PriceReader - интерфейс для чтения цен
type PriceReader interface {
	Spot(ctx context.Context, symbol, currency string) (PriceDTO, error)
	At(ctx context.Context, identifier string, unixTs int64, currency string) (PriceDTO, error)
}

// Bot - Telegram-бот над движком цен
type Bot struct {
	bot     *telebot.Bot
	prices  PriceReader
	timeout time.Duration
	logger  *slog.Logger
}

// New создаёт новый экземпляр бота
func New(cfg Config, prices PriceReader, logger *slog.Logger) (*Bot, error) {
	if cfg.LongPollTimeout <= 0 {
		cfg.LongPollTimeout = 10 * time.Second
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.LongPollTimeout},
	})
	if err != nil {
		return nil, err
	}

	bot := newBot(prices, cfg.RequestTimeout, logger)
	bot.bot = b

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle("/price", bot.handlePrice)
	b.Handle("/priceat", bot.handlePriceAt)
	return bot, nil
}

func newBot(prices PriceReader, timeout time.Duration, logger *slog.Logger) *Bot {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bot{prices: prices, timeout: timeout, logger: logger}
}

// Start запускает бота; останавливается по отмене контекста
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
}

// Stop останавливает бота
func (b *Bot) Stop() {
	b.bot.Stop()
}
