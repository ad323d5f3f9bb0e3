package ai

import "fmt"

// InsufficientDataError is returned by the forecaster when the order history
// is too thin to fit a model.
type InsufficientDataError struct {
	MinimumRequired   int
	CurrentDataPoints int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough historical data for a reliable prediction: have %d orders, need %d",
		e.CurrentDataPoints, e.MinimumRequired)
}

// NoActiveProductsError is returned when a shop has no active products to
// analyze.
type NoActiveProductsError struct {
	ShopID string
}

func (e *NoActiveProductsError) Error() string {
	return fmt.Sprintf("no active products found for shop %s", e.ShopID)
}

// ProductNotFoundError is returned by the pricing advisor when the requested
// product does not exist.
type ProductNotFoundError struct {
	ShopID    string
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found for shop %s", e.ProductID, e.ShopID)
}
