package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderItemRequest struct {
	ProductID        int64                  `json:"product_id"`
	Quantity         int64                  `json:"quantity"`
	SelectedVariants map[string]interface{} `json:"selected_variants"`
}

type OrderCreateRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress json.RawMessage    `json:"shipping_address"`
	BillingAddress  json.RawMessage    `json:"billing_address"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentID       string             `json:"payment_id"`
	Notes           string             `json:"notes"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	Tax             decimal.Decimal    `json:"tax"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

// contextからAuthJWTが入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// contextから閲覧者（user_id + role）を組み立てる
func getViewerFromContext(c echo.Context) (model.Viewer, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return model.Viewer{}, false
	}

	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return model.Viewer{UserID: userID, Role: model.Role(role)}, true
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.CreateOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CreateOrderItemInput{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			SelectedVariants: it.SelectedVariants,
		})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentID:       req.PaymentID,
		Notes:           req.Notes,
		ShippingCost:    req.ShippingCost,
		Tax:             req.Tax,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	viewer, ok := getViewerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.FindAll(c.Request().Context(), viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	viewer, ok := getViewerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.FindOne(c.Request().Context(), viewer, id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		//存在しない注文は空ボディの200（エラーにしない）
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, out)
}
