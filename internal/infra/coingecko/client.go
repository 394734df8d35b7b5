package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotListed - контракта нет на этой платформе (404 или пустой id)
	ErrNotListed = errors.New("contract not listed on platform")
	// ErrMalformed - ответ не того формата, что ожидали
	ErrMalformed = errors.New("malformed coingecko response")

	errNotFound = errors.New("not found")
)

// Limiter - то, через что проходит каждый запрос к API (rate gate)
type Limiter interface {
	Acquire(ctx context.Context) error
}

type Config struct {
	BaseURL       string
	APIKey        string
	UserAgent     string
	SpotTimeout   time.Duration // spot и поиск контракта
	SeriesTimeout time.Duration // диапазон и история за день
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	gate       Limiter
	logger     *slog.Logger
}

// NewClient - Создаёт клиента CoinGecko. Таймауты задаются на каждый запрос отдельно.
func NewClient(cfg Config, gate Limiter, logger *slog.Logger) *Client {
	if cfg.SpotTimeout <= 0 {
		cfg.SpotTimeout = 10 * time.Second
	}
	if cfg.SeriesTimeout <= 0 {
		cfg.SeriesTimeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "crypto-price-oracle/1.0 (+https://github.com/NastyaGoryachaya/crypto-price-oracle)"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		gate:       gate,
		logger:     logger,
	}
}

// SimplePrice - текущие цены: id -> валюта -> цена
func (c *Client) SimplePrice(ctx context.Context, ids []string, currencies []string) (map[string]map[string]decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.ToLower(strings.Join(currencies, ",")))

	var raw map[string]map[string]decimal.NullDecimal
	if err := c.getJSON(ctx, "simple_price", c.cfg.SpotTimeout, q, &raw, "simple", "price"); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]decimal.Decimal, len(raw))
	for id, prices := range raw {
		m := make(map[string]decimal.Decimal, len(prices))
		for cur, p := range prices {
			if p.Valid {
				m[strings.ToLower(cur)] = p.Decimal
			}
		}
		out[id] = m
	}
	return out, nil
}

type marketChartResponse struct {
	Prices [][]json.Number `json:"prices"`
}

// MarketChartRange - ряд [timestamp_ms, price] за окно [from, to] (UNIX-секунды)
func (c *Client) MarketChartRange(ctx context.Context, id, currency string, from, to int64) ([]domain.SeriesPoint, error) {
	q := url.Values{}
	q.Set("vs_currency", strings.ToLower(currency))
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))

	var data marketChartResponse
	if err := c.getJSON(ctx, "market_chart_range", c.cfg.SeriesTimeout, q, &data, "coins", id, "market_chart", "range"); err != nil {
		return nil, err
	}

	out := make([]domain.SeriesPoint, 0, len(data.Prices))
	for _, p := range data.Prices {
		if len(p) < 2 {
			return nil, fmt.Errorf("%w: series point has %d values", ErrMalformed, len(p))
		}
		ts, err := strconv.ParseFloat(p[0].String(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q", ErrMalformed, p[0])
		}
		price, err := decimal.NewFromString(p[1].String())
		if err != nil {
			return nil, fmt.Errorf("%w: price %q", ErrMalformed, p[1])
		}
		out = append(out, domain.SeriesPoint{TimestampMs: int64(ts), Price: price})
	}
	return out, nil
}

type historyResponse struct {
	MarketData *struct {
		CurrentPrice map[string]decimal.NullDecimal `json:"current_price"`
	} `json:"market_data"`
}

// History - цены за календарный день (UTC) в разных валютах
func (c *Client) History(ctx context.Context, id string, day time.Time) (map[string]decimal.Decimal, error) {
	q := url.Values{}
	q.Set("date", day.UTC().Format("02-01-2006"))
	q.Set("localization", "false")

	var data historyResponse
	if err := c.getJSON(ctx, "history", c.cfg.SeriesTimeout, q, &data, "coins", id, "history"); err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal)
	if data.MarketData == nil {
		return out, nil
	}
	for cur, p := range data.MarketData.CurrentPrice {
		if p.Valid {
			out[strings.ToLower(cur)] = p.Decimal
		}
	}
	return out, nil
}

type contractResponse struct {
	ID string `json:"id"`
}

// ContractLookup - canonical id токена по адресу контракта на платформе
func (c *Client) ContractLookup(ctx context.Context, platform, address string) (string, error) {
	var data contractResponse
	err := c.getJSON(ctx, "contract", c.cfg.SpotTimeout, nil, &data, "coins", platform, "contract", strings.ToLower(address))
	if errors.Is(err, errNotFound) {
		return "", ErrNotListed
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(data.ID) == "" {
		return "", ErrNotListed
	}
	return data.ID, nil
}

// getJSON - общий GET: rate gate, таймаут, заголовки, разбор JSON
func (c *Client) getJSON(ctx context.Context, endpoint string, timeout time.Duration, q url.Values, out any, parts ...string) (err error) {
	if c.gate != nil {
		if err := c.gate.Acquire(ctx); err != nil {
			return fmt.Errorf("rate gate: %w: %w", domain.ErrUpstreamSkipped, err)
		}
	}

	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, errNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		metrics.UpstreamRequest(endpoint, outcome, time.Since(start))
	}()

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath(parts...)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("coingecko returned error",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("request failed: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrMalformed, err)
	}
	return nil
}
