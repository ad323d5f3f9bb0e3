package handlers

import (
	"fmt"
	"log"

	"app/database"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HandleCreateStockMovement records a manual stock movement and applies it to
// the product's quantity.
// POST /api/stock/movements
func HandleCreateStockMovement(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.StockMovementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing product_id or invalid quantity"})
	}
	switch req.MovementType {
	case models.MovementIn, models.MovementOut, models.MovementAdjustment:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid movement_type"})
	}

	db := database.GetDB()
	tx, err := db.Begin(c.Context())
	if err != nil {
		log.Printf("Error starting stock movement transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not record movement"})
	}
	defer tx.Rollback(c.Context())

	var movement models.StockMovement
	err = tx.QueryRow(c.Context(), `
		INSERT INTO stock_movements (id, shop_id, product_id, movement_type, quantity, reason, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, shop_id, product_id, movement_type, quantity, reason, reference_id, created_at`,
		uuid.NewString(), shopID, req.ProductID, req.MovementType, req.Quantity, req.Reason, req.ReferenceID,
	).Scan(&movement.ID, &movement.ShopID, &movement.ProductID, &movement.MovementType,
		&movement.Quantity, &movement.Reason, &movement.ReferenceID, &movement.CreatedAt)
	if err != nil {
		log.Printf("Error inserting stock movement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not record movement"})
	}

	delta := req.Quantity
	if req.MovementType != models.MovementIn {
		delta = -req.Quantity
	}
	if _, err := tx.Exec(c.Context(),
		"UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE shop_id = $2 AND id = $3",
		delta, shopID, req.ProductID); err != nil {
		log.Printf("Error applying stock movement to product %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update stock"})
	}

	if err := tx.Commit(c.Context()); err != nil {
		log.Printf("Error committing stock movement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not record movement"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": movement})
}

// HandleListStockMovements lists movements, optionally for one product.
// GET /api/stock/movements?product_id=
func HandleListStockMovements(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := `
		SELECT id, shop_id, product_id, movement_type, quantity, reason, reference_id, created_at
		FROM stock_movements
		WHERE shop_id = $1
	`
	args := []interface{}{shopID}
	if productID := c.Query("product_id"); productID != "" {
		args = append(args, productID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC LIMIT 1000"

	rows, err := database.GetDB().Query(c.Context(), query, args...)
	if err != nil {
		log.Printf("Error listing stock movements: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list movements"})
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ShopID, &m.ProductID, &m.MovementType,
			&m.Quantity, &m.Reason, &m.ReferenceID, &m.CreatedAt); err != nil {
			log.Printf("Error scanning stock movement row: %v", err)
			continue
		}
		movements = append(movements, m)
	}
	return c.JSON(fiber.Map{"status": "success", "data": movements})
}

// HandleListLowStock lists active products at or below their minimum level.
// GET /api/stock/low
func HandleListLowStock(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE shop_id = $1 AND is_active = TRUE AND stock_quantity <= min_stock_level
		ORDER BY stock_quantity`, productColumns)

	rows, err := database.GetDB().Query(c.Context(), query, shopID)
	if err != nil {
		log.Printf("Error listing low stock products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list low stock products"})
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Printf("Error scanning product row: %v", err)
			continue
		}
		products = append(products, p)
	}
	return c.JSON(fiber.Map{"status": "success", "data": products})
}
