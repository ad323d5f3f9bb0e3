package handlers

import (
	"fmt"
	"log"

	"app/database"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const supplierColumns = `id, shop_id, name, company, contact_person, email, phone, address, notes,
	is_active, created_at, updated_at`

func scanSupplier(row pgx.Row) (models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(
		&s.ID, &s.ShopID, &s.Name, &s.Company, &s.ContactPerson, &s.Email,
		&s.Phone, &s.Address, &s.Notes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// HandleCreateSupplier registers a supplier for the shop.
// POST /api/suppliers
func HandleCreateSupplier(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.SupplierCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing name"})
	}

	query := fmt.Sprintf(`
		INSERT INTO suppliers (id, shop_id, name, company, contact_person, email, phone, address, notes,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, NOW(), NOW())
		RETURNING %s`, supplierColumns)

	supplier, err := scanSupplier(database.GetDB().QueryRow(c.Context(), query,
		uuid.NewString(), shopID, req.Name, req.Company, req.ContactPerson,
		req.Email, req.Phone, req.Address, req.Notes))
	if err != nil {
		log.Printf("Error creating supplier: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create supplier"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": supplier})
}

// HandleListSuppliers lists the shop's suppliers.
// GET /api/suppliers
func HandleListSuppliers(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM suppliers WHERE shop_id = $1 ORDER BY name", supplierColumns)
	rows, err := database.GetDB().Query(c.Context(), query, shopID)
	if err != nil {
		log.Printf("Error listing suppliers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list suppliers"})
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			log.Printf("Error scanning supplier row: %v", err)
			continue
		}
		suppliers = append(suppliers, s)
	}
	return c.JSON(fiber.Map{"status": "success", "data": suppliers})
}

// HandleGetSupplier fetches one supplier by id.
// GET /api/suppliers/:supplierId
func HandleGetSupplier(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM suppliers WHERE shop_id = $1 AND id = $2", supplierColumns)
	supplier, err := scanSupplier(database.GetDB().QueryRow(c.Context(), query, shopID, c.Params("supplierId")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Supplier not found"})
		}
		log.Printf("Error fetching supplier: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch supplier"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": supplier})
}

// HandleGetSupplierProducts lists the products sourced from a supplier.
// GET /api/suppliers/:supplierId/products
func HandleGetSupplierProducts(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM products WHERE shop_id = $1 AND supplier_id = $2 ORDER BY name", productColumns)
	rows, err := database.GetDB().Query(c.Context(), query, shopID, c.Params("supplierId"))
	if err != nil {
		log.Printf("Error listing supplier products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list supplier products"})
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

// HandleDeleteSupplier removes a supplier unless products still reference it.
// DELETE /api/suppliers/:supplierId
func HandleDeleteSupplier(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	supplierID := c.Params("supplierId")
	db := database.GetDB()

	var productCount int
	if err := db.QueryRow(c.Context(),
		"SELECT COUNT(*) FROM products WHERE shop_id = $1 AND supplier_id = $2",
		shopID, supplierID).Scan(&productCount); err != nil {
		log.Printf("Error counting supplier products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete supplier"})
	}
	if productCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("Cannot delete supplier: %d products still reference it", productCount),
		})
	}

	tag, err := db.Exec(c.Context(), "DELETE FROM suppliers WHERE shop_id = $1 AND id = $2", shopID, supplierID)
	if err != nil {
		log.Printf("Error deleting supplier: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete supplier"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Supplier not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Supplier deleted"})
}
