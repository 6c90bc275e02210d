package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/mykafka"
	"github.com/glowmart/shopcore/internal/service/token"
	"github.com/glowmart/shopcore/internal/store"
)

type OrderHandler struct {
	Orders   *store.Orders
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// CreateOrder places an order for the authenticated user. Whatever status
// the client may have supplied is ignored; the store forces Pending.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req struct {
		Items           []models.CartItem `json:"items"`
		Total           float64           `json:"total"`
		ShippingAddress string            `json:"shippingAddress"`
		Phone           string            `json:"phone"`
		PaymentMethod   string            `json:"paymentMethod"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	order, err := h.Orders.CreateOrder(c.Request().Context(), store.CreateOrderRequest{
		UserID:          token.UserID(c),
		Items:           req.Items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":    "order_created",
		"orderId": order.ID,
		"userId":  order.UserID,
		"total":   order.Total,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	orders, err := h.Orders.ListOrdersForUser(c.Request().Context(), token.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order; customers only see their own, admins
// see everything.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.Orders.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if order.UserID != token.UserID(c) && c.Get("role") != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.ListOrders(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus is admin-only routing-wise; the store additionally
// rejects transitions the status graph does not allow.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, err)
	}

	order, err := h.Orders.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderId": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, order)
}
