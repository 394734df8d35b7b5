package httptransport

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/ports/errcode"
	"github.com/labstack/echo/v4"
)

type MappingsService interface {
	List(ctx context.Context, symbol string) ([]domain.CanonicalMapping, error)
	GetByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error)
	Create(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Update(ctx context.Context, id int64, m domain.CanonicalMapping) (domain.CanonicalMapping, error)
	Delete(ctx context.Context, id int64) error
}

// MappingRequest - тело POST/PUT
type MappingRequest struct {
	Symbol          string `json:"symbol"`
	Network         string `json:"network"`
	ContractAddress string `json:"contract_address"`
	CoinGeckoID     string `json:"coingecko_id"`
	Source          string `json:"source"`
}

func (r MappingRequest) toDomain() domain.CanonicalMapping {
	return domain.CanonicalMapping{
		Symbol:          r.Symbol,
		Network:         r.Network,
		ContractAddress: r.ContractAddress,
		CanonicalID:     r.CoinGeckoID,
		Source:          domain.MappingSource(r.Source),
	}
}

// MappingsHandler - администрирование сопоставлений токенов
type MappingsHandler struct {
	logger  *slog.Logger
	svc     MappingsService
	timeout time.Duration
}

func NewMappingsHandler(logger *slog.Logger, svc MappingsService, timeout time.Duration) *MappingsHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	if timeout <= 0 {
		timeout = time.Second * 3
	}
	return &MappingsHandler{logger: logger, svc: svc, timeout: timeout}
}

func (h *MappingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/by-contract/:contract", h.GetByContract)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *MappingsHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.svc.List(ctx, c.QueryParam("symbol"))
	if err != nil {
		return h.fail(c, "List", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MappingsHandler) GetByContract(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.svc.GetByContract(ctx, c.Param("contract"), c.QueryParam("network"))
	if err != nil {
		return h.fail(c, "GetByContract", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MappingsHandler) Create(c echo.Context) error {
	var req MappingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.svc.Create(ctx, req.toDomain())
	if err != nil {
		return h.fail(c, "Create", err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MappingsHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
	}
	var req MappingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.svc.Update(ctx, id, req.toDomain())
	if err != nil {
		return h.fail(c, "Update", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MappingsHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		return h.fail(c, "Delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MappingsHandler) fail(c echo.Context, op string, err error) error {
	code := FromServiceError(err)
	status, msg := httpStatus(code)
	if code == errcode.Internal {
		h.logger.Error("mappings request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
	return c.JSON(status, echo.Map{"error": msg})
}
