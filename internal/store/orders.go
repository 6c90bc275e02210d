package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glowmart/shopcore/internal/metrics"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/storage"
)

type Orders struct {
	Storage *storage.Store
}

// CreateOrderRequest carries a checkout. Total is caller-computed and
// persisted verbatim: the shipping rule lives client-side, so the store
// cannot recompute it and does not try.
type CreateOrderRequest struct {
	UserID          string
	Items           []models.CartItem
	Total           float64
	ShippingAddress string
	Phone           string
	PaymentMethod   string
}

func (r CreateOrderRequest) validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: userId required", ErrValidation)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for _, item := range r.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: item product id required", ErrValidation)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
	}
	if r.Total < 0 {
		return fmt.Errorf("%w: total must be >= 0", ErrValidation)
	}
	return nil
}

// CreateOrder validates the request, reserves catalog stock and appends the
// order with status forced to Pending regardless of caller input. Stock is
// checked and decremented in the same catalog write, so a conflicting
// checkout retries against fresh quantities.
func (o *Orders) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyOrders, "create").Inc()
	if err := req.validate(); err != nil {
		return nil, err
	}

	err := storage.Update(ctx, o.Storage, storage.KeyProducts, func(products []models.Product) ([]models.Product, error) {
		for _, item := range req.Items {
			idx := -1
			for i := range products {
				if products[i].ID == item.ID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w: product %q", ErrNotFound, item.ID)
			}
			if products[idx].Stock < item.Quantity {
				return nil, fmt.Errorf("%w: product %q has %d left, want %d",
					ErrInsufficientStock, item.ID, products[idx].Stock, item.Quantity)
			}
			products[idx].Stock -= item.Quantity
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:              NewOrderID(),
		UserID:          req.UserID,
		Items:           req.Items,
		Total:           req.Total,
		Status:          models.OrderPending,
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       time.Now().UTC(),
	}

	err = storage.Update(ctx, o.Storage, storage.KeyOrders, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order), nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	metrics.OrderRevenue.Add(order.Total)
	return &order, nil
}

func (o *Orders) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyOrders, "get").Inc()
	orders, err := storage.List[models.Order](ctx, o.Storage, storage.KeyOrders)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: order %q", ErrNotFound, id)
}

// ListOrders returns every order in insertion order. Admin dashboard use.
func (o *Orders) ListOrders(ctx context.Context) ([]models.Order, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyOrders, "list").Inc()
	return storage.List[models.Order](ctx, o.Storage, storage.KeyOrders)
}

// ListOrdersForUser returns the user's orders most-recent-first.
func (o *Orders) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyOrders, "list_user").Inc()
	orders, err := storage.List[models.Order](ctx, o.Storage, storage.KeyOrders)
	if err != nil {
		return nil, err
	}
	mine := []models.Order{}
	for i := len(orders) - 1; i >= 0; i-- {
		if orders[i].UserID == userID {
			mine = append(mine, orders[i])
		}
	}
	return mine, nil
}

// UpdateOrderStatus moves an order along the status graph. Moves the graph
// does not allow, including any move out of a terminal state, are rejected
// with ErrInvalidTransition.
func (o *Orders) UpdateOrderStatus(ctx context.Context, id string, next models.OrderStatus) (*models.Order, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyOrders, "status").Inc()
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	var updated models.Order
	err := storage.Update(ctx, o.Storage, storage.KeyOrders, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			if !orders[i].Status.CanTransition(next) {
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, orders[i].Status, next)
			}
			orders[i].Status = next
			updated = orders[i]
			return orders, nil
		}
		return nil, fmt.Errorf("%w: order %q", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// NewOrderID mints the human-readable order reference.
func NewOrderID() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + token[:9]
}
