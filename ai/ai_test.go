package ai

import (
	"context"
	"time"

	"app/models"
	"app/store"
)

// Shared fakes for the analytics tests. fakeStore filters in-memory slices the
// same way the pgx adapter filters rows; fakeNarrator records the prompts it
// was given and returns a scripted response.

const testShop = "shop-1"

type fakeStore struct {
	orders      []models.Order
	products    []models.Product
	customers   int
	ordersErr   error
	productsErr error
}

func (f *fakeStore) FindOrders(_ context.Context, shopID string, filter store.OrderFilter) ([]models.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	out := []models.Order{}
	for _, o := range f.orders {
		if o.ShopID != shopID {
			continue
		}
		if filter.ExcludeStatus != "" && o.Status == filter.ExcludeStatus {
			continue
		}
		if filter.CreatedAfter != nil && o.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		if filter.CreatedBefore != nil && o.CreatedAt.After(*filter.CreatedBefore) {
			continue
		}
		if filter.CustomerID != "" && (o.CustomerID == nil || *o.CustomerID != filter.CustomerID) {
			continue
		}
		out = append(out, o)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) FindProducts(_ context.Context, shopID string, filter store.ProductFilter) ([]models.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	out := []models.Product{}
	for _, p := range f.products {
		if p.ShopID != shopID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.ProductID != "" && p.ID != filter.ProductID {
			continue
		}
		out = append(out, p)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) CountProducts(_ context.Context, shopID string, activeOnly bool) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.ShopID != shopID {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) CountCustomers(_ context.Context, shopID string) (int, error) {
	return f.customers, nil
}

type fakeNarrator struct {
	response    string
	err         error
	calls       int
	lastSession string
	lastSystem  string
	lastUser    string
}

func (f *fakeNarrator) Generate(_ context.Context, sessionTag, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSession = sessionTag
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func orderDaysAgo(daysAgo int, total float64, items ...models.OrderItem) models.Order {
	return models.Order{
		ShopID:      testShop,
		Items:       items,
		TotalAmount: total,
		Status:      models.OrderStatusCompleted,
		CreatedAt:   time.Now().AddDate(0, 0, -daysAgo),
	}
}

func lineItem(productID string, quantity int, unitPrice float64) models.OrderItem {
	return models.OrderItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * float64(quantity),
	}
}

func activeProduct(id, name string, price float64, stock, minStock int) models.Product {
	return models.Product{
		ID:            id,
		ShopID:        testShop,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		MinStockLevel: minStock,
		IsActive:      true,
	}
}
