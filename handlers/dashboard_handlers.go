package handlers

import (
	"fmt"
	"log"
	"time"

	"app/database"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

// HandleDashboardStats fetches the shop dashboard summary: today's sales,
// entity counts, low-stock count, recent orders and the week's top sellers.
// GET /api/dashboard/stats
func HandleDashboardStats(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	db := database.GetDB()
	ctx := c.Context()

	var stats models.DashboardStats

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE shop_id = $1 AND created_at >= $2 AND status <> $3`,
		shopID, todayStart, models.OrderStatusCancelled,
	).Scan(&stats.TotalSalesToday, &stats.TotalOrdersToday)
	if err != nil {
		log.Printf("Error fetching today's sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch today's sales"})
	}

	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM customers WHERE shop_id = $1", shopID).Scan(&stats.TotalCustomers); err != nil {
		log.Printf("Error counting customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch customer count"})
	}
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM products WHERE shop_id = $1 AND is_active = TRUE", shopID).Scan(&stats.TotalProducts); err != nil {
		log.Printf("Error counting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product count"})
	}
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE shop_id = $1 AND is_active = TRUE AND stock_quantity <= min_stock_level`,
		shopID).Scan(&stats.LowStockProducts); err != nil {
		log.Printf("Error counting low stock products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch low stock count"})
	}

	query := fmt.Sprintf("SELECT %s FROM orders WHERE shop_id = $1 ORDER BY created_at DESC LIMIT 5", orderColumns)
	rows, err := db.Query(ctx, query, shopID)
	if err != nil {
		log.Printf("Error fetching recent orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recent orders"})
	}
	defer rows.Close()

	stats.RecentOrders = []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Printf("Error scanning recent order row: %v", err)
			continue
		}
		stats.RecentOrders = append(stats.RecentOrders, o)
	}

	// Top sellers over the trailing week, from the jsonb line items.
	weekAgo := now.AddDate(0, 0, -7)
	topRows, err := db.Query(ctx, `
		SELECT item->>'product_id' AS product_id,
		       item->>'product_name' AS product_name,
		       COALESCE(SUM((item->>'quantity')::int), 0) AS quantity_sold,
		       COALESCE(SUM((item->>'total_price')::numeric), 0) AS revenue
		FROM orders, jsonb_array_elements(items) AS item
		WHERE shop_id = $1 AND created_at >= $2 AND status <> $3
		GROUP BY product_id, product_name
		ORDER BY revenue DESC
		LIMIT 5`,
		shopID, weekAgo, models.OrderStatusCancelled)
	if err != nil {
		log.Printf("Error fetching top sellers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch top sellers"})
	}
	defer topRows.Close()

	stats.TopSellingProducts = []models.TopSale{}
	for topRows.Next() {
		var t models.TopSale
		if err := topRows.Scan(&t.ProductID, &t.ProductName, &t.QuantitySold, &t.Revenue); err != nil {
			log.Printf("Error scanning top seller row: %v", err)
			continue
		}
		stats.TopSellingProducts = append(stats.TopSellingProducts, t)
	}

	return c.JSON(stats)
}
