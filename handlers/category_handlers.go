package handlers

import (
	"log"

	"app/database"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleCreateCategory creates a product category.
// POST /api/categories
func HandleCreateCategory(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing name"})
	}

	var category models.Category
	err := database.GetDB().QueryRow(c.Context(), `
		INSERT INTO categories (id, shop_id, name, description, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, shop_id, name, description, parent_id, created_at`,
		uuid.NewString(), shopID, req.Name, req.Description, req.ParentID,
	).Scan(&category.ID, &category.ShopID, &category.Name, &category.Description, &category.ParentID, &category.CreatedAt)
	if err != nil {
		log.Printf("Error creating category: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create category"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": category})
}

// HandleListCategories lists the shop's categories.
// GET /api/categories
func HandleListCategories(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	rows, err := database.GetDB().Query(c.Context(),
		"SELECT id, shop_id, name, description, parent_id, created_at FROM categories WHERE shop_id = $1 ORDER BY name",
		shopID)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list categories"})
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.ShopID, &cat.Name, &cat.Description, &cat.ParentID, &cat.CreatedAt); err != nil {
			log.Printf("Error scanning category row: %v", err)
			continue
		}
		categories = append(categories, cat)
	}
	return c.JSON(fiber.Map{"status": "success", "data": categories})
}

// HandleDeleteCategory removes a category.
// DELETE /api/categories/:categoryId
func HandleDeleteCategory(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	tag, err := database.GetDB().Exec(c.Context(),
		"DELETE FROM categories WHERE shop_id = $1 AND id = $2", shopID, c.Params("categoryId"))
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete category"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Category not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Category deleted"})
}

// HandleGetCategory fetches one category by id.
// GET /api/categories/:categoryId
func HandleGetCategory(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var category models.Category
	err := database.GetDB().QueryRow(c.Context(),
		"SELECT id, shop_id, name, description, parent_id, created_at FROM categories WHERE shop_id = $1 AND id = $2",
		shopID, c.Params("categoryId"),
	).Scan(&category.ID, &category.ShopID, &category.Name, &category.Description, &category.ParentID, &category.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Category not found"})
		}
		log.Printf("Error fetching category: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch category"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": category})
}
