package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	botpkg "github.com/NastyaGoryachaya/crypto-price-oracle/internal/bot"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/bot/adapter"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/config"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/coingecko"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/db"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/ratelimit"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository/memory"
	repopg "github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository/postgres"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/scheduler"
	mappingsvc "github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/mappings"
	pricesvc "github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/prices"
	warmupsvc "github.com/NastyaGoryachaya/crypto-price-oracle/internal/service/warmup"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/transport/httptransport"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// mappingStorage - всё, что нужно от хранилища сопоставлений движку и админке
type mappingStorage interface {
	pricesvc.MappingStore
	mappingsvc.Store
}

type App struct {
	cfg config.Config
	log *slog.Logger

	db   *pgxpool.Pool
	e    *echo.Echo
	serv *http.Server

	prices   pricesvc.Service
	mappings mappingsvc.Service

	updater *scheduler.Scheduler

	bot *botpkg.Bot
}

func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	mappingRepo, pointRepo, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	gate := ratelimit.NewGate(cfg.CoinGecko.RateLimit)
	provider := coingecko.NewClient(coingecko.Config{
		BaseURL:       cfg.CoinGecko.BaseURL,
		APIKey:        cfg.CoinGecko.APIKey,
		UserAgent:     cfg.CoinGecko.UserAgent,
		SpotTimeout:   cfg.CoinGecko.SpotTimeout,
		SeriesTimeout: cfg.CoinGecko.SeriesTimeout,
	}, gate, log)

	tokens := make(map[string]string, len(cfg.Prices.Tokens))
	for sym, t := range cfg.Prices.Tokens {
		tokens[sym] = t.CoinGeckoID
	}

	app.prices = pricesvc.NewService(pricesvc.Options{
		FiatCurrency:    cfg.FiatCurrency(),
		Tokens:          tokens,
		Platforms:       cfg.CoinGecko.Platforms,
		PlatformAliases: cfg.CoinGecko.PlatformAliases,
		Networks:        cfg.CoinGecko.Networks,
		Cache: pricesvc.CacheConfig{
			Size:          cfg.Prices.CacheSize,
			SpotTTL:       cfg.Prices.SpotTTL,
			HistoricalTTL: cfg.Prices.HistoricalTTL,
		},
	}, provider, mappingRepo, pointRepo, log)

	app.mappings = mappingsvc.NewService(mappingRepo, pricesvc.NewSeedTable(tokens), log)
	if cfg.Storage.SeedMappings {
		if _, err := app.mappings.Seed(ctx); err != nil {
			// сидирование не критично: движок работает и по встроенной таблице
			log.Warn("seed price mappings failed", slog.String("error", err.Error()))
		}
	}

	ph := httptransport.NewPricesHandler(log, app.prices, cfg.FiatCurrency(), cfg.Server.RequestTimeout)
	mh := httptransport.NewMappingsHandler(log, app.mappings, cfg.Server.ReadTimeout)
	app.e = httptransport.NewRouter(ph, mh)

	app.serv = &http.Server{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      app.e,
	}

	if cfg.Warmup.Enabled {
		warm := warmupsvc.NewService(app.prices, cfg.Warmup.Symbols, cfg.FiatCurrency(), log)
		app.updater = scheduler.NewScheduler(warm, cfg.Warmup.Interval, log)
	}

	if cfg.Telegram.Enabled {
		// Если бот включён, отсутствие токена - ошибка конфигурации
		token := strings.TrimSpace(cfg.Telegram.Token)
		if token == "" {
			log.Error("telegram enabled but TELEGRAM_BOT_TOKEN is empty")
			app.closeDB()
			return nil, errors.New("telegram token is empty")
		}

		botApp, err := botpkg.New(
			botpkg.Config{Token: token, LongPollTimeout: cfg.Telegram.LongPollTimeout, RequestTimeout: cfg.Server.RequestTimeout},
			adapter.NewPriceReader(app.prices, cfg.FiatCurrency()),
			log,
		)
		if err != nil {
			log.Error("telegram init failed", slog.String("error", err.Error()))
			app.closeDB()
			return nil, err
		}
		app.bot = botApp
	}

	log.Info("app initialized",
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("coingecko_rpm", cfg.CoinGecko.RateLimit),
		slog.Duration("gate_interval", gate.Interval()),
		slog.Bool("warmup_enabled", cfg.Warmup.Enabled),
		slog.Bool("telegram_enabled", cfg.Telegram.Enabled),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

// initStorage - postgres (с миграциями) или память процесса
func (a *App) initStorage(ctx context.Context) (mappingStorage, pricesvc.PricePointStore, error) {
	switch strings.ToLower(a.cfg.Storage.Driver) {
	case "memory":
		a.log.Warn("using in-memory storage: mappings and price cache are lost on restart")
		return memory.NewMappingStore(), memory.NewPriceCacheStore(), nil
	case "", "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}

	if a.cfg.Storage.Migrate {
		if err := db.Migrate(db.DSN(&a.cfg.Postgres), a.log); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := db.NewPool(ctx, &a.cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.db = pool
	return repopg.NewMappingRepository(pool), repopg.NewPriceCacheRepository(pool), nil
}

func (a *App) Run(ctx context.Context) error {
	if a.updater != nil {
		a.log.Info("starting warmup")
		go a.updater.Start(ctx)
	}

	if a.bot != nil {
		a.log.Info("starting bot")
		go a.bot.Start(ctx)
	}

	a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
	errCh := make(chan error, 1)
	go func() {
		if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", slog.String("error", err.Error()))
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	if err := a.Shutdown(context.Background()); err != nil {
		return err
	}
	return runErr
}

func (a *App) Shutdown(ctx context.Context) error {
	shCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.e != nil {
		if err := a.e.Shutdown(shCtx); err != nil {
			a.log.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	a.closeDB()
	a.log.Info("application stopped")
	return nil
}

func (a *App) closeDB() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}
