package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"app/database"
	"app/middleware"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, shop_id, name, description, price, cost_price, category_id,
	supplier_id, sku, barcode, stock_quantity, min_stock_level, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Description, &p.Price, &p.CostPrice,
		&p.CategoryID, &p.SupplierID, &p.SKU, &p.Barcode, &p.StockQuantity,
		&p.MinStockLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// HandleCreateProduct creates a product in the shop's catalog.
// POST /api/products
func HandleCreateProduct(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Name == "" || req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing name or invalid price"})
	}

	db := database.GetDB()

	// SKU and barcode stay unique within a shop.
	if req.SKU != nil {
		var n int
		_ = db.QueryRow(c.Context(), "SELECT COUNT(*) FROM products WHERE shop_id = $1 AND sku = $2", shopID, *req.SKU).Scan(&n)
		if n > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "A product with this SKU already exists"})
		}
	}
	if req.Barcode != nil {
		var n int
		_ = db.QueryRow(c.Context(), "SELECT COUNT(*) FROM products WHERE shop_id = $1 AND barcode = $2", shopID, *req.Barcode).Scan(&n)
		if n > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "A product with this barcode already exists"})
		}
	}

	minStock := 5
	if req.MinStockLevel != nil {
		minStock = *req.MinStockLevel
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	query := fmt.Sprintf(`
		INSERT INTO products (id, shop_id, name, description, price, cost_price, category_id,
			supplier_id, sku, barcode, stock_quantity, min_stock_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING %s`, productColumns)

	product, err := scanProduct(db.QueryRow(c.Context(), query,
		uuid.NewString(), shopID, req.Name, req.Description, req.Price, req.CostPrice,
		req.CategoryID, req.SupplierID, req.SKU, req.Barcode, req.StockQuantity, minStock, isActive,
	))
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": product})
}

// HandleListProducts lists products with optional category, search and
// low-stock filters.
// GET /api/products?category_id=&search=&low_stock=&page=&page_size=
func HandleListProducts(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	db := database.GetDB()

	query := fmt.Sprintf("SELECT %s FROM products WHERE shop_id = $1 AND is_active = TRUE", productColumns)
	countQuery := "SELECT COUNT(*) FROM products WHERE shop_id = $1 AND is_active = TRUE"
	args := []interface{}{shopID}

	if categoryID := c.Query("category_id"); categoryID != "" {
		args = append(args, categoryID)
		clause := fmt.Sprintf(" AND category_id = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if search := c.Query("search"); search != "" {
		args = append(args, "%"+search+"%")
		clause := fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d OR barcode ILIKE $%d)", len(args), len(args), len(args))
		query += clause
		countQuery += clause
	}
	if c.QueryBool("low_stock") {
		clause := " AND stock_quantity <= min_stock_level"
		query += clause
		countQuery += clause
	}

	var total int
	if err := db.QueryRow(c.Context(), countQuery, args...).Scan(&total); err != nil {
		log.Printf("Error counting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list products"})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)
	pagination := utils.CreatePagination(total, page, pageSize)

	args = append(args, pagination.PageSize, (pagination.CurrentPage-1)*pagination.PageSize)
	query += fmt.Sprintf(" ORDER BY created_at LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.Query(c.Context(), query, args...)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list products"})
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

	return c.JSON(fiber.Map{"status": "success", "data": products, "pagination": pagination})
}

// HandleGetProduct fetches one product by id.
// GET /api/products/:productId
func HandleGetProduct(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM products WHERE shop_id = $1 AND id = $2", productColumns)
	product, err := scanProduct(database.GetDB().QueryRow(c.Context(), query, shopID, c.Params("productId")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error fetching product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch product"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": product})
}

// HandleGetProductByBarcode fetches one product by barcode.
// GET /api/products/barcode/:barcode
func HandleGetProductByBarcode(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM products WHERE shop_id = $1 AND barcode = $2", productColumns)
	product, err := scanProduct(database.GetDB().QueryRow(c.Context(), query, shopID, c.Params("barcode")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error fetching product by barcode: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch product"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": product})
}

// HandleUpdateProduct patches the provided fields of a product.
// PUT /api/products/:productId
func HandleUpdateProduct(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	productID := c.Params("productId")

	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.CostPrice != nil {
		add("cost_price", *req.CostPrice)
	}
	if req.CategoryID != nil {
		add("category_id", *req.CategoryID)
	}
	if req.SupplierID != nil {
		add("supplier_id", *req.SupplierID)
	}
	if req.SKU != nil {
		add("sku", *req.SKU)
	}
	if req.Barcode != nil {
		add("barcode", *req.Barcode)
	}
	if req.StockQuantity != nil {
		add("stock_quantity", *req.StockQuantity)
	}
	if req.MinStockLevel != nil {
		add("min_stock_level", *req.MinStockLevel)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	if len(set) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No fields to update"})
	}
	add("updated_at", time.Now())

	args = append(args, shopID, productID)
	query := fmt.Sprintf("UPDATE products SET %s WHERE shop_id = $%d AND id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)-1, len(args), productColumns)

	product, err := scanProduct(database.GetDB().QueryRow(c.Context(), query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update product"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": product})
}

// HandleDeleteProduct deactivates a product (soft delete).
// DELETE /api/products/:productId
func HandleDeleteProduct(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	tag, err := database.GetDB().Exec(c.Context(),
		"UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE shop_id = $1 AND id = $2",
		shopID, c.Params("productId"))
	if err != nil {
		log.Printf("Error deleting product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete product"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Product deactivated"})
}
