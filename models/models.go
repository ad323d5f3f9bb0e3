package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- Enums ---

// Order lifecycle statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Stock movement directions.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// --- JWT & Auth ---

type JwtClaims struct {
	ShopID string `json:"shopId"`
	jwt.RegisteredClaims
}

type ShopLoginRequest struct {
	ShopID    string `json:"shop_id"`
	AccessKey string `json:"access_key"`
}

// --- Core Models ---

// Shop represents a single retailer tenant. Every record and every
// analytics query is scoped by its id.
type Shop struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	IsActive      bool      `json:"is_active"`
	AccessKeyHash string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Product is a sellable item in a shop's catalog.
type Product struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Price         float64   `json:"price"`
	CostPrice     float64   `json:"cost_price"`
	CategoryID    *string   `json:"category_id,omitempty"`
	SupplierID    *string   `json:"supplier_id,omitempty"`
	SKU           *string   `json:"sku,omitempty"`
	Barcode       *string   `json:"barcode,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Customer is a buyer attached to a shop.
type Customer struct {
	ID             string    `json:"id"`
	ShopID         string    `json:"shop_id"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Address        *string   `json:"address,omitempty"`
	City           *string   `json:"city,omitempty"`
	TotalPurchases float64   `json:"total_purchases"`
	CreatedAt      time.Time `json:"created_at"`
}

// Category groups products.
type Category struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Supplier provides products to a shop.
type Supplier struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	Name          string    `json:"name"`
	Company       *string   `json:"company,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderItem is one product+quantity+price line within an order.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderItems allows storing order line items in a PostgreSQL jsonb column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported scan type for OrderItems")
	}
	return json.Unmarshal(bytes, o)
}

// Order is an immutable sales transaction. Totals are computed at creation
// time: subtotal + 10% tax - discount.
type Order struct {
	ID             string     `json:"id"`
	ShopID         string     `json:"shop_id"`
	CustomerID     *string    `json:"customer_id,omitempty"`
	CustomerName   *string    `json:"customer_name,omitempty"`
	Items          OrderItems `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	TaxAmount      float64    `json:"tax_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	TotalAmount    float64    `json:"total_amount"`
	Status         string     `json:"status"`
	PaymentMethod  *string    `json:"payment_method,omitempty"`
	PaymentStatus  string     `json:"payment_status"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StockMovement records a change to a product's stock quantity.
type StockMovement struct {
	ID           string    `json:"id"`
	ShopID       string    `json:"shop_id"`
	ProductID    string    `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	ReferenceID  *string   `json:"reference_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// --- Request payloads ---

type ProductCreateRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Price         float64 `json:"price"`
	CostPrice     float64 `json:"cost_price"`
	CategoryID    *string `json:"category_id"`
	SupplierID    *string `json:"supplier_id"`
	SKU           *string `json:"sku"`
	Barcode       *string `json:"barcode"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel *int    `json:"min_stock_level"`
	IsActive      *bool   `json:"is_active"`
}

type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	CostPrice     *float64 `json:"cost_price"`
	CategoryID    *string  `json:"category_id"`
	SupplierID    *string  `json:"supplier_id"`
	SKU           *string  `json:"sku"`
	Barcode       *string  `json:"barcode"`
	StockQuantity *int     `json:"stock_quantity"`
	MinStockLevel *int     `json:"min_stock_level"`
	IsActive      *bool    `json:"is_active"`
}

type CustomerCreateRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

type CustomerUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

type CategoryCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
}

type SupplierCreateRequest struct {
	Name          string  `json:"name"`
	Company       *string `json:"company"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

type OrderCreateRequest struct {
	CustomerID     *string     `json:"customer_id"`
	CustomerName   *string     `json:"customer_name"`
	Items          []OrderItem `json:"items"`
	DiscountAmount float64     `json:"discount_amount"`
	PaymentMethod  *string     `json:"payment_method"`
	Notes          *string     `json:"notes"`
}

type OrderUpdateRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	Notes         *string `json:"notes"`
}

type StockMovementCreateRequest struct {
	ProductID    string  `json:"product_id"`
	MovementType string  `json:"movement_type"`
	Quantity     int     `json:"quantity"`
	Reason       string  `json:"reason"`
	ReferenceID  *string `json:"reference_id"`
}

// DashboardStats is the shop dashboard summary payload.
type DashboardStats struct {
	TotalSalesToday    float64   `json:"total_sales_today"`
	TotalOrdersToday   int       `json:"total_orders_today"`
	TotalCustomers     int       `json:"total_customers"`
	TotalProducts      int       `json:"total_products"`
	LowStockProducts   int       `json:"low_stock_products"`
	RecentOrders       []Order   `json:"recent_orders"`
	TopSellingProducts []TopSale `json:"top_selling_products"`
}

// TopSale is one entry in the dashboard's top-seller ranking.
type TopSale struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}
