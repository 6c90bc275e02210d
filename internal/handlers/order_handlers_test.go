package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glowmart/shopcore/internal/models"
)

func orderBody(p models.Product, qty int, total float64) map[string]any {
	return map[string]any{
		"items": []map[string]any{{
			"id":       p.ID,
			"name":     p.Name,
			"price":    p.Price,
			"quantity": qty,
		}},
		"total":           total,
		"shippingAddress": "1 Main St, Springfield",
		"phone":           "555-0101",
		"paymentMethod":   "Cash on Delivery",
	}
}

func TestCreateOrderForcesPendingStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "serum", 55, 30)

	body := orderBody(p, 2, 125)
	body["status"] = "Delivered" // must be ignored

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
	asUser(c, "u-1", models.RoleUser)
	require.NoError(t, env.Ord.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, models.OrderPending, order.Status)
	require.Equal(t, "u-1", order.UserID)
	require.Equal(t, 125.0, order.Total)
}

func TestCreateOrderInsufficientStockConflicts(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "perfume", 95, 1)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", orderBody(p, 5, 475))
	asUser(c, "u-1", models.RoleUser)
	require.NoError(t, env.Ord.CreateOrder(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetMyOrdersIsScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "oil", 28, 100)

	for _, user := range []string{"u-1", "u-1", "u-2"} {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", orderBody(p, 1, 43))
		asUser(c, user, models.RoleUser)
		require.NoError(t, env.Ord.CreateOrder(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	asUser(c, "u-1", models.RoleUser)
	require.NoError(t, env.Ord.GetMyOrders(c))

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, "u-1", o.UserID)
	}
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "mask", 15, 10)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", orderBody(p, 1, 30))
	asUser(c, "u-1", models.RoleUser)
	require.NoError(t, env.Ord.CreateOrder(c))
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	asUser(c, "u-2", models.RoleUser)
	err := env.Ord.GetOrder(c)
	require.Error(t, err)

	// The admin sees it.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Ord.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateOrderStatusEnforcesGraph(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "toner", 20, 10)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", orderBody(p, 1, 35))
	asUser(c, "u-1", models.RoleUser)
	require.NoError(t, env.Ord.CreateOrder(c))
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{
		"status": "Processing",
	})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Ord.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Processing -> Delivered skips Shipped and must conflict.
	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{
		"status": "Delivered",
	})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Ord.UpdateOrderStatus(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "serum", 50, 100)

	totals := []float64{100, 200}
	var orderIDs []string
	for _, total := range totals {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", orderBody(p, 1, total))
		asUser(c, "u-1", models.RoleUser)
		require.NoError(t, env.Ord.CreateOrder(c))
		var o models.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
		orderIDs = append(orderIDs, o.ID)
	}

	// Cancel the second order; its total must drop out of revenue.
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderIDs[1]+"/status", map[string]string{
		"status": "Cancelled",
	})
	c.SetParamNames("id")
	c.SetParamValues(orderIDs[1])
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Ord.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Adm.GetStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 100.0, stats.Revenue)
	require.Equal(t, 2, stats.TotalOrders)
	require.Len(t, stats.RecentOrders, 2)
	require.Equal(t, orderIDs[1], stats.RecentOrders[0].ID)
}
