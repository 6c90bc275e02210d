package store

import (
	"context"

	"github.com/glowmart/shopcore/internal/metrics"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/storage"
)

const recentOrderCount = 5

// Reporting computes the admin dashboard aggregate from scratch on every
// call. At this data scale a rescan beats maintaining running totals.
type Reporting struct {
	Storage *storage.Store
}

func (r *Reporting) Stats(ctx context.Context) (*models.Stats, error) {
	metrics.StoreOps.WithLabelValues("stats", "compute").Inc()

	orders, err := storage.List[models.Order](ctx, r.Storage, storage.KeyOrders)
	if err != nil {
		return nil, err
	}
	products, err := storage.List[models.Product](ctx, r.Storage, storage.KeyProducts)
	if err != nil {
		return nil, err
	}
	users, err := storage.List[models.UserRecord](ctx, r.Storage, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	categories, err := storage.List[models.Category](ctx, r.Storage, storage.KeyCategories)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		TotalOrders:     len(orders),
		TotalProducts:   len(products),
		TotalUsers:      len(users),
		TotalCategories: len(categories),
		RecentOrders:    []models.Order{},
	}

	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			stats.Revenue += o.Total
		}
	}

	for i := len(orders) - 1; i >= 0 && len(stats.RecentOrders) < recentOrderCount; i-- {
		stats.RecentOrders = append(stats.RecentOrders, orders[i])
	}

	return stats, nil
}
