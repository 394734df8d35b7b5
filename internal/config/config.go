package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Загрузка конфигурации из config.yaml через cleanenv, переменные окружения имеют приоритет

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	Prices    PricesConfig    `yaml:"prices"`
	Warmup    WarmupConfig    `yaml:"warmup"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"45s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	// RequestTimeout - сколько ждём движок цен в одном HTTP-запросе (пробы контрактов идут через rate gate)
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"40s"`
}

type StorageConfig struct {
	Driver       string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"` // postgres|memory
	Migrate      bool   `yaml:"migrate" env-default:"true"`
	SeedMappings bool   `yaml:"seed_mappings" env-default:"true"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"` // debug|info|warn|error
	Format string `yaml:"format" env-default:"text"`                // text|json
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName          string        `yaml:"dbname" env:"POSTGRES_DB" env-default:"crypto"`
	SSLMode         string        `yaml:"sslmode" env-default:"disable"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	MaxConns        int32         `yaml:"max_conns" env-default:"10"`
	MinConns        int32         `yaml:"min_conns" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"30m"`
}

type CoinGeckoConfig struct {
	BaseURL string `yaml:"base_url" env:"COINGECKO_BASE_URL" env-default:"https://api.coingecko.com/api/v3"`
	APIKey  string `yaml:"api_key" env:"COINGECKO_API_KEY"`
	// RateLimit - запросов в минуту к CoinGecko
	RateLimit     int           `yaml:"rate_limit" env:"COINGECKO_RATE_LIMIT" env-default:"10"`
	SpotTimeout   time.Duration `yaml:"spot_timeout" env-default:"10s"`
	SeriesTimeout time.Duration `yaml:"series_timeout" env-default:"15s"`
	UserAgent     string        `yaml:"user_agent" env-default:"crypto-price-oracle/1.0"`
	// Platforms - порядок перебора платформ при поиске контракта
	Platforms []string `yaml:"platforms" env-default:"ethereum,polygon-pos,binance-smart-chain,arbitrum-one,avalanche,base,solana"`
	// PlatformAliases - slug платформы CoinGecko -> имя сети в нашей системе
	PlatformAliases map[string]string `yaml:"platform_aliases"`
	// Networks - сети, которые знает остальная система
	Networks []string `yaml:"networks" env-default:"ethereum,polygon,bsc,arbitrum,avalanche,base,solana,optimism"`
}

type TokenConfig struct {
	CoinGeckoID string `yaml:"coingecko_id"`
}

type PricesConfig struct {
	FiatCurrency  string        `yaml:"fiat_currency" env:"FIAT_CURRENCY" env-default:"EUR"`
	SpotTTL       time.Duration `yaml:"spot_ttl" env-default:"60s"`
	HistoricalTTL time.Duration `yaml:"historical_ttl" env-default:"1h"`
	CacheSize     int           `yaml:"cache_size" env-default:"10000"`
	// Tokens - дополнительные символы; перекрывают встроенную таблицу
	Tokens map[string]TokenConfig `yaml:"tokens"`
}

type WarmupConfig struct {
	Enabled  bool          `yaml:"enabled" env:"WARMUP_ENABLED" env-default:"false"`
	Interval time.Duration `yaml:"interval" env-default:"5m"`
	Symbols  []string      `yaml:"symbols" env-default:"BTC,ETH"`
}

type TelegramConfig struct {
	Enabled         bool          `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	Token           string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	LongPollTimeout time.Duration `yaml:"long_poll_timeout" env-default:"10s"`
}

// LoadConfig - читает YAML (если путь задан), затем окружение
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	// .env необязателен
	_ = godotenv.Load()

	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FetchConfigPath - путь из флага -c или CONFIG_PATH
func FetchConfigPath() string {
	var res string
	if f := flag.Lookup("c"); f != nil {
		res = f.Value.String()
	} else {
		flag.StringVar(&res, "c", "", "config file path")
		flag.Parse()
	}
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}

// Default - конфигурация на случай, если прочитать настройки не удалось
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    45 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  40 * time.Second,
		},
		Storage: StorageConfig{Driver: "memory"},
		Postgres: PostgresConfig{
			Host: "localhost", Port: 5432, User: "postgres", Password: "postgres",
			DBName: "crypto", SSLMode: "disable", Timeout: 5 * time.Second,
			MaxConns: 10, MinConns: 1, MaxConnLifetime: time.Hour, MaxConnIdleTime: 30 * time.Minute,
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL:       "https://api.coingecko.com/api/v3",
			RateLimit:     10,
			SpotTimeout:   10 * time.Second,
			SeriesTimeout: 15 * time.Second,
			UserAgent:     "crypto-price-oracle/1.0",
			Platforms:     []string{"ethereum", "polygon-pos", "binance-smart-chain", "arbitrum-one", "avalanche", "base", "solana"},
			Networks:      []string{"ethereum", "polygon", "bsc", "arbitrum", "avalanche", "base", "solana", "optimism"},
		},
		Prices: PricesConfig{
			FiatCurrency:  "EUR",
			SpotTTL:       60 * time.Second,
			HistoricalTTL: time.Hour,
			CacheSize:     10000,
		},
		Warmup:   WarmupConfig{Interval: 5 * time.Minute, Symbols: []string{"BTC", "ETH"}},
		Telegram: TelegramConfig{LongPollTimeout: 10 * time.Second},
		Logger:   LoggerConfig{Level: "info", Format: "text"},
	}
}

// FiatCurrency - валюта по умолчанию в нижнем регистре (как ждёт CoinGecko)
func (c *Config) FiatCurrency() string {
	fiat := strings.ToLower(strings.TrimSpace(c.Prices.FiatCurrency))
	if fiat == "" {
		return "eur"
	}
	return fiat
}
