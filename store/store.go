package store

import (
	"context"
	"time"

	"app/models"
)

// OrderFilter narrows an order query. Zero values mean "no constraint".
type OrderFilter struct {
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExcludeStatus string
	CustomerID    string
	Limit         int
}

// ProductFilter narrows a product query.
type ProductFilter struct {
	ActiveOnly bool
	ProductID  string
	Limit      int
}

// Store is the read-side data access adapter consumed by the analytics
// subsystems. All queries are scoped to a single shop; filters are simple
// equality/range predicates, no joins.
type Store interface {
	FindOrders(ctx context.Context, shopID string, f OrderFilter) ([]models.Order, error)
	FindProducts(ctx context.Context, shopID string, f ProductFilter) ([]models.Product, error)
	CountProducts(ctx context.Context, shopID string, activeOnly bool) (int, error)
	CountCustomers(ctx context.Context, shopID string) (int, error)
}
