package httptransport

import (
	"net/http"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter - echo с маршрутами /v1, /metrics и /healthz
func NewRouter(prices *PricesHandler, mappings *MappingsHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/v1")
	prices.RegisterRoutes(v1)
	mappings.RegisterRoutes(v1.Group("/price-mappings"))
	return e
}
