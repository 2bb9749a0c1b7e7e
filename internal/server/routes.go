package server

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminAudit   *handler.AdminAuditLogHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg)
	h.Review.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminAudit.RegisterRoutes(e, cfg)
}
