package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"app/database"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, shop_id, customer_id, customer_name, items, subtotal, tax_amount,
	discount_amount, total_amount, status, payment_method, payment_status, notes, created_at, updated_at`

// taxRate is applied to the order subtotal at creation time.
const taxRate = 0.1

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.ShopID, &o.CustomerID, &o.CustomerName, &o.Items, &o.Subtotal,
		&o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.Status,
		&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// HandleCreateOrder records a sale: computes totals, decrements stock, writes
// a stock movement per line item and updates the customer's running total,
// all in one transaction.
// POST /api/orders
func HandleCreateOrder(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Order needs at least one item"})
	}

	var subtotal float64
	for _, item := range req.Items {
		subtotal += item.TotalPrice
	}
	taxAmount := subtotal * taxRate
	totalAmount := subtotal + taxAmount - req.DiscountAmount

	db := database.GetDB()
	tx, err := db.Begin(c.Context())
	if err != nil {
		log.Printf("Error starting order transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create order"})
	}
	defer tx.Rollback(c.Context())

	orderID := uuid.NewString()
	query := fmt.Sprintf(`
		INSERT INTO orders (id, shop_id, customer_id, customer_name, items, subtotal, tax_amount,
			discount_amount, total_amount, status, payment_method, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING %s`, orderColumns)

	order, err := scanOrder(tx.QueryRow(c.Context(), query,
		orderID, shopID, req.CustomerID, req.CustomerName, models.OrderItems(req.Items),
		subtotal, taxAmount, req.DiscountAmount, totalAmount,
		models.OrderStatusPending, req.PaymentMethod, models.PaymentStatusPending, req.Notes,
	))
	if err != nil {
		log.Printf("Error inserting order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create order"})
	}

	for _, item := range req.Items {
		if _, err := tx.Exec(c.Context(),
			"UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW() WHERE shop_id = $2 AND id = $3",
			item.Quantity, shopID, item.ProductID); err != nil {
			log.Printf("Error decrementing stock for %s: %v", item.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update stock"})
		}
		if _, err := tx.Exec(c.Context(), `
			INSERT INTO stock_movements (id, shop_id, product_id, movement_type, quantity, reason, reference_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
			uuid.NewString(), shopID, item.ProductID, models.MovementOut, item.Quantity, "Sale", orderID); err != nil {
			log.Printf("Error recording stock movement for %s: %v", item.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not record stock movement"})
		}
	}

	if req.CustomerID != nil && *req.CustomerID != "" {
		if _, err := tx.Exec(c.Context(),
			"UPDATE customers SET total_purchases = total_purchases + $1 WHERE shop_id = $2 AND id = $3",
			totalAmount, shopID, *req.CustomerID); err != nil {
			log.Printf("Error updating customer total for %s: %v", *req.CustomerID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update customer"})
		}
	}

	if err := tx.Commit(c.Context()); err != nil {
		log.Printf("Error committing order transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create order"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": order})
}

// HandleListOrders lists orders with optional status, customer and date
// filters, newest first.
// GET /api/orders?status=&customer_id=&date_from=&date_to=
func HandleListOrders(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM orders WHERE shop_id = $1", orderColumns)
	args := []interface{}{shopID}

	if status := c.Query("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		args = append(args, customerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date_from"})
		}
		args = append(args, t)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date_to"})
		}
		args = append(args, t.AddDate(0, 0, 1))
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at DESC LIMIT 1000"

	rows, err := database.GetDB().Query(c.Context(), query, args...)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list orders"})
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Printf("Error scanning order row: %v", err)
			continue
		}
		orders = append(orders, o)
	}

	return c.JSON(fiber.Map{"status": "success", "data": orders})
}

// HandleGetOrder fetches one order by id.
// GET /api/orders/:orderId
func HandleGetOrder(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM orders WHERE shop_id = $1 AND id = $2", orderColumns)
	order, err := scanOrder(database.GetDB().QueryRow(c.Context(), query, shopID, c.Params("orderId")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
		}
		log.Printf("Error fetching order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch order"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": order})
}

// HandleUpdateOrder patches an order's status, payment status or notes.
// PUT /api/orders/:orderId
func HandleUpdateOrder(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	orderID := c.Params("orderId")

	var req models.OrderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.PaymentStatus != nil {
		add("payment_status", *req.PaymentStatus)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if len(set) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No fields to update"})
	}
	add("updated_at", time.Now())

	args = append(args, shopID, orderID)
	query := fmt.Sprintf("UPDATE orders SET %s WHERE shop_id = $%d AND id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)-1, len(args), orderColumns)

	order, err := scanOrder(database.GetDB().QueryRow(c.Context(), query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
		}
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update order"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": order})
}
