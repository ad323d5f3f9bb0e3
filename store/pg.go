package store

import (
	"context"
	"fmt"

	"app/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the PostgreSQL-backed Store used in production.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore wraps a connection pool in a Store.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// FindOrders returns the shop's orders matching the filter, newest first.
func (s *PgStore) FindOrders(ctx context.Context, shopID string, f OrderFilter) ([]models.Order, error) {
	query := `
		SELECT id, shop_id, customer_id, customer_name, items, subtotal, tax_amount,
		       discount_amount, total_amount, status, payment_method, payment_status,
		       notes, created_at, updated_at
		FROM orders
		WHERE shop_id = $1
	`
	args := []interface{}{shopID}

	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.CreatedBefore != nil {
		args = append(args, *f.CreatedBefore)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if f.ExcludeStatus != "" {
		args = append(args, f.ExcludeStatus)
		query += fmt.Sprintf(" AND status <> $%d", len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.ShopID, &o.CustomerID, &o.CustomerName, &o.Items, &o.Subtotal,
			&o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.Status,
			&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// FindProducts returns the shop's products matching the filter.
func (s *PgStore) FindProducts(ctx context.Context, shopID string, f ProductFilter) ([]models.Product, error) {
	query := `
		SELECT id, shop_id, name, description, price, cost_price, category_id,
		       supplier_id, sku, barcode, stock_quantity, min_stock_level, is_active,
		       created_at, updated_at
		FROM products
		WHERE shop_id = $1
	`
	args := []interface{}{shopID}

	if f.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	query += " ORDER BY created_at"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.ShopID, &p.Name, &p.Description, &p.Price, &p.CostPrice,
			&p.CategoryID, &p.SupplierID, &p.SKU, &p.Barcode, &p.StockQuantity,
			&p.MinStockLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts counts the shop's products, optionally only active ones.
func (s *PgStore) CountProducts(ctx context.Context, shopID string, activeOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM products WHERE shop_id = $1"
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	var n int
	if err := s.db.QueryRow(ctx, query, shopID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// CountCustomers counts the shop's customers.
func (s *PgStore) CountCustomers(ctx context.Context, shopID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers WHERE shop_id = $1", shopID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}
