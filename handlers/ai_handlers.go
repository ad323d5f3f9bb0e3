package handlers

import (
	"errors"
	"log"
	"strconv"

	"app/ai"
	"app/middleware"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

// AIHandler exposes the analytics subsystems over HTTP. Dependencies are
// injected so the handlers can be tested against a fake store and narrator.
type AIHandler struct {
	Services *ai.Services
}

// NewAIHandler builds the handler around the analytics services.
func NewAIHandler(services *ai.Services) *AIHandler {
	return &AIHandler{Services: services}
}

// aiError maps the analytics error taxonomy onto structured JSON error
// responses. Every error carries an "error" description plus diagnostic
// context; callers check the error field before consuming data.
func aiError(c *fiber.Ctx, err error) error {
	var insufficient *ai.InsufficientDataError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":               "not enough historical data for a reliable prediction",
			"minimum_required":    insufficient.MinimumRequired,
			"current_data_points": insufficient.CurrentDataPoints,
		})
	}

	var noProducts *ai.NoActiveProductsError
	if errors.As(err, &noProducts) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "no active products found for this shop",
			"shop_id": noProducts.ShopID,
		})
	}

	var notFound *ai.ProductNotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":      "product not found",
			"shop_id":    notFound.ShopID,
			"product_id": notFound.ProductID,
		})
	}

	log.Printf("analytics error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "analysis failed",
	})
}

// HandleSalesForecast projects daily revenue forward.
// GET /api/ai/forecast?days_ahead=7
func (h *AIHandler) HandleSalesForecast(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	daysAhead, _ := strconv.Atoi(c.Query("days_ahead", "7"))

	forecast, err := h.Services.PredictSales(c.Context(), shopID, daysAhead)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(forecast)
}

// HandleStockOptimization produces reorder recommendations.
// GET /api/ai/stock-optimization
func (h *AIHandler) HandleStockOptimization(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	optimization, err := h.Services.OptimizeStockLevels(c.Context(), shopID)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(optimization)
}

// HandleProductRecommendations derives the four recommendation lists.
// POST /api/ai/recommendations
func (h *AIHandler) HandleProductRecommendations(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req struct {
		CustomerID string   `json:"customer_id"`
		Cart       []string `json:"current_cart"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	recs, err := h.Services.ProductRecommendations(c.Context(), shopID, req.CustomerID, req.Cart)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(recs)
}

// HandlePricingRecommendations suggests price adjustments for one product or
// the whole catalog.
// GET /api/ai/pricing?product_id=...
func (h *AIHandler) HandlePricingRecommendations(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	productID := c.Query("product_id")

	advice, err := h.Services.PricingRecommendations(c.Context(), shopID, productID)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(advice)
}

// HandlePerformanceAnalysis aggregates KPIs plus AI insights for a period.
// GET /api/ai/performance?period_days=30
func (h *AIHandler) HandlePerformanceAnalysis(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)
	periodDays, _ := strconv.Atoi(c.Query("period_days", "30"))

	report, err := h.Services.AnalyzePerformance(c.Context(), shopID, periodDays)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(report)
}

// HandleAssistantChat forwards a free-text question to the assistant.
// POST /api/ai/assistant
func (h *AIHandler) HandleAssistantChat(c *fiber.Ctx) error {
	shopID := middleware.ShopID(c)

	var req models.AssistantChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing message"})
	}

	response := h.Services.AssistantChat(c.Context(), shopID, req.Message, req.SessionID)
	return c.JSON(fiber.Map{"response": response})
}
