package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, aiHandler *handlers.AIHandler) {
	api := app.Group("/api")

	api.Get("/", handlers.HandleRoot)
	api.Get("/health", handlers.HandleHealth)

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/shop-login", handlers.HandleShopLogin)

	// --- Shop-scoped Routes ---
	shop := api.Group("/", middleware.JWTMiddleware)

	products := shop.Group("/products")
	products.Post("/", handlers.HandleCreateProduct)
	products.Get("/", handlers.HandleListProducts)
	products.Get("/barcode/:barcode", handlers.HandleGetProductByBarcode) // Must be before /:productId
	products.Get("/:productId", handlers.HandleGetProduct)
	products.Put("/:productId", handlers.HandleUpdateProduct)
	products.Delete("/:productId", handlers.HandleDeleteProduct)

	customers := shop.Group("/customers")
	customers.Post("/", handlers.HandleCreateCustomer)
	customers.Get("/", handlers.HandleListCustomers)
	customers.Get("/:customerId", handlers.HandleGetCustomer)
	customers.Put("/:customerId", handlers.HandleUpdateCustomer)
	customers.Delete("/:customerId", handlers.HandleDeleteCustomer)

	categories := shop.Group("/categories")
	categories.Post("/", handlers.HandleCreateCategory)
	categories.Get("/", handlers.HandleListCategories)
	categories.Get("/:categoryId", handlers.HandleGetCategory)
	categories.Delete("/:categoryId", handlers.HandleDeleteCategory)

	suppliers := shop.Group("/suppliers")
	suppliers.Post("/", handlers.HandleCreateSupplier)
	suppliers.Get("/", handlers.HandleListSuppliers)
	suppliers.Get("/:supplierId", handlers.HandleGetSupplier)
	suppliers.Get("/:supplierId/products", handlers.HandleGetSupplierProducts)
	suppliers.Delete("/:supplierId", handlers.HandleDeleteSupplier)

	orders := shop.Group("/orders")
	orders.Post("/", handlers.HandleCreateOrder)
	orders.Get("/", handlers.HandleListOrders)
	orders.Get("/:orderId", handlers.HandleGetOrder)
	orders.Put("/:orderId", handlers.HandleUpdateOrder)

	stock := shop.Group("/stock")
	stock.Post("/movements", handlers.HandleCreateStockMovement)
	stock.Get("/movements", handlers.HandleListStockMovements)
	stock.Get("/low", handlers.HandleListLowStock)

	shop.Get("/dashboard/stats", handlers.HandleDashboardStats)

	// --- AI / Analytics Routes ---
	ai := shop.Group("/ai")
	ai.Get("/forecast", aiHandler.HandleSalesForecast)
	ai.Get("/stock-optimization", aiHandler.HandleStockOptimization)
	ai.Post("/recommendations", aiHandler.HandleProductRecommendations)
	ai.Get("/pricing", aiHandler.HandlePricingRecommendations)
	ai.Get("/performance", aiHandler.HandlePerformanceAnalysis)
	ai.Post("/assistant", aiHandler.HandleAssistantChat)
}
