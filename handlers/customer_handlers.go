package handlers

import (
	"fmt"
	"log"
	"strings"

	"app/database"
	"app/middleware"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, shop_id, name, email, phone, address, city, total_purchases, created_at`

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var cu models.Customer
	err := row.Scan(
		&cu.ID, &cu.ShopID, &cu.Name, &cu.Email, &cu.Phone,
		&cu.Address, &cu.City, &cu.TotalPurchases, &cu.CreatedAt,
	)
	return cu, err
}

// HandleCreateCustomer registers a customer for the shop.
// POST /api/customers
func HandleCreateCustomer(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.CustomerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing name"})
	}

	query := fmt.Sprintf(`
		INSERT INTO customers (id, shop_id, name, email, phone, address, city, total_purchases, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW())
		RETURNING %s`, customerColumns)

	customer, err := scanCustomer(database.GetDB().QueryRow(c.Context(), query,
		uuid.NewString(), shopID, req.Name, req.Email, req.Phone, req.Address, req.City))
	if err != nil {
		log.Printf("Error creating customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create customer"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": customer})
}

// HandleListCustomers lists the shop's customers with an optional search.
// GET /api/customers?search=&page=&page_size=
func HandleListCustomers(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	db := database.GetDB()

	query := fmt.Sprintf("SELECT %s FROM customers WHERE shop_id = $1", customerColumns)
	countQuery := "SELECT COUNT(*) FROM customers WHERE shop_id = $1"
	args := []interface{}{shopID}

	if search := c.Query("search"); search != "" {
		args = append(args, "%"+search+"%")
		clause := fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", len(args), len(args), len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := db.QueryRow(c.Context(), countQuery, args...).Scan(&total); err != nil {
		log.Printf("Error counting customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list customers"})
	}

	pagination := utils.CreatePagination(total, c.QueryInt("page", 1), c.QueryInt("page_size", 50))
	args = append(args, pagination.PageSize, (pagination.CurrentPage-1)*pagination.PageSize)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.Query(c.Context(), query, args...)
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not list customers"})
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		cu, err := scanCustomer(rows)
		if err != nil {
			log.Printf("Error scanning customer row: %v", err)
			continue
		}
		customers = append(customers, cu)
	}

	return c.JSON(fiber.Map{"status": "success", "data": customers, "pagination": pagination})
}

// HandleGetCustomer fetches one customer by id.
// GET /api/customers/:customerId
func HandleGetCustomer(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	query := fmt.Sprintf("SELECT %s FROM customers WHERE shop_id = $1 AND id = $2", customerColumns)
	customer, err := scanCustomer(database.GetDB().QueryRow(c.Context(), query, shopID, c.Params("customerId")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Customer not found"})
		}
		log.Printf("Error fetching customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not fetch customer"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": customer})
}

// HandleUpdateCustomer patches the provided fields of a customer.
// PUT /api/customers/:customerId
func HandleUpdateCustomer(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	customerID := c.Params("customerId")

	var req models.CustomerUpdateRequest
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
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if len(set) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No fields to update"})
	}

	args = append(args, shopID, customerID)
	query := fmt.Sprintf("UPDATE customers SET %s WHERE shop_id = $%d AND id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)-1, len(args), customerColumns)

	customer, err := scanCustomer(database.GetDB().QueryRow(c.Context(), query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Customer not found"})
		}
		log.Printf("Error updating customer %s: %v", customerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not update customer"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": customer})
}

// HandleDeleteCustomer removes a customer.
// DELETE /api/customers/:customerId
func HandleDeleteCustomer(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	tag, err := database.GetDB().Exec(c.Context(),
		"DELETE FROM customers WHERE shop_id = $1 AND id = $2", shopID, c.Params("customerId"))
	if err != nil {
		log.Printf("Error deleting customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete customer"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Customer not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Customer deleted"})
}
