package httptransport

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/ports/errcode"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PricesService - то, что HTTP-слою нужно от движка цен.
type PricesService interface {
	GetPrice(ctx context.Context, symbol, quote string) (decimal.Decimal, bool)
	GetPriceFiat(ctx context.Context, symbol string) (decimal.Decimal, bool)
	GetPriceAt(ctx context.Context, identifier string, unixTs int64, quote string) (decimal.Decimal, bool)
	GetPriceAtIdentifier(ctx context.Context, id domain.Identifier, unixTs int64, quote string) (decimal.Decimal, bool)
}

// Price - DTO ответа; цена строкой, чтобы не терять точность
type Price struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	Timestamp *int64          `json:"timestamp,omitempty"`
}

// PricesHandler - HTTP‑handler для цен.
type PricesHandler struct {
	logger  *slog.Logger
	svc     PricesService
	fiat    string
	timeout time.Duration
}

func NewPricesHandler(logger *slog.Logger, svc PricesService, fiat string, timeout time.Duration) *PricesHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	return &PricesHandler{
		logger:  logger,
		svc:     svc,
		fiat:    strings.ToLower(strings.TrimSpace(fiat)),
		timeout: timeout,
	}
}

func (h *PricesHandler) RegisterRoutes(r interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}) {
	r.GET("/prices/history", h.GetPriceAt)
	r.GET("/prices/:symbol", h.GetPrice)
	r.GET("/prices/:symbol/fiat", h.GetPriceFiat)
}

func (h *PricesHandler) currency(raw string) string {
	if c := strings.ToLower(strings.TrimSpace(raw)); c != "" {
		return c
	}
	return h.fiat
}

func (h *PricesHandler) GetPrice(c echo.Context) error {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "symbol_required"})
	}
	currency := h.currency(c.QueryParam("currency"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	price, ok := h.svc.GetPrice(ctx, symbol, currency)
	if !ok {
		return priceNotFound(c, symbol)
	}
	return c.JSON(http.StatusOK, Price{ID: strings.ToUpper(symbol), Currency: currency, Price: price})
}

func (h *PricesHandler) GetPriceFiat(c echo.Context) error {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "symbol_required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	price, ok := h.svc.GetPriceFiat(ctx, symbol)
	if !ok {
		return priceNotFound(c, symbol)
	}
	return c.JSON(http.StatusOK, Price{ID: strings.ToUpper(symbol), Currency: h.fiat, Price: price})
}

// GetPriceAt - ?id=BTC|0x...&ts=UNIX[&currency=usd][&network=polygon]
func (h *PricesHandler) GetPriceAt(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("id"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_required"})
	}
	ts, err := strconv.ParseInt(c.QueryParam("ts"), 10, 64)
	if err != nil || ts < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_timestamp"})
	}

	id, ok := domain.ParseIdentifier(raw)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_identifier"})
	}
	if network := c.QueryParam("network"); network != "" && id.IsContract() {
		id = domain.ContractIdentifier(network, id.Contract)
	}
	currency := h.currency(c.QueryParam("currency"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	price, ok := h.svc.GetPriceAtIdentifier(ctx, id, ts, currency)
	if !ok {
		return priceNotFound(c, id.String())
	}
	return c.JSON(http.StatusOK, Price{ID: id.String(), Currency: currency, Price: price, Timestamp: &ts})
}

func priceNotFound(c echo.Context, id string) error {
	status, msg := httpStatus(errcode.NotFoundPrice)
	return c.JSON(status, echo.Map{"error": msg, "id": id})
}
