package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "store_operations_total",
		Help:      "Store operations by collection and operation.",
	}, []string{"collection", "op"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "orders_created_total",
		Help:      "Orders accepted by the order store.",
	})

	OrderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "order_revenue_total",
		Help:      "Sum of order totals at creation time.",
	})

	RevisionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "storage_revision_conflicts_total",
		Help:      "Optimistic-concurrency conflicts observed by the storage adapter.",
	})
)
