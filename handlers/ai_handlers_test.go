package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/ai"
	"app/models"
	"app/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore serves canned data so the handlers can be exercised without a
// database.
type stubStore struct {
	orders   []models.Order
	products []models.Product
}

func (s *stubStore) FindOrders(_ context.Context, shopID string, f store.OrderFilter) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range s.orders {
		if o.ShopID != shopID {
			continue
		}
		if f.ExcludeStatus != "" && o.Status == f.ExcludeStatus {
			continue
		}
		if f.CreatedAfter != nil && o.CreatedAt.Before(*f.CreatedAfter) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *stubStore) FindProducts(_ context.Context, shopID string, f store.ProductFilter) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		if p.ShopID != shopID {
			continue
		}
		if f.ProductID != "" && p.ID != f.ProductID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) CountProducts(_ context.Context, shopID string, _ bool) (int, error) {
	return len(s.products), nil
}

func (s *stubStore) CountCustomers(_ context.Context, shopID string) (int, error) {
	return 0, nil
}

type stubNarrator struct{ response string }

func (s *stubNarrator) Generate(_ context.Context, _, _, _ string) (string, error) {
	return s.response, nil
}

// newTestApp wires the AI routes behind a middleware that injects the shop
// scope, standing in for the JWT layer.
func newTestApp(st store.Store, narrator ai.Narrator) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("shopID", "shop-1")
		return c.Next()
	})

	h := NewAIHandler(ai.NewServices(st, narrator))
	app.Get("/ai/forecast", h.HandleSalesForecast)
	app.Get("/ai/stock-optimization", h.HandleStockOptimization)
	app.Post("/ai/recommendations", h.HandleProductRecommendations)
	app.Get("/ai/pricing", h.HandlePricingRecommendations)
	app.Get("/ai/performance", h.HandlePerformanceAnalysis)
	app.Post("/ai/assistant", h.HandleAssistantChat)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func shopOrders(n int) []models.Order {
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, models.Order{
			ShopID:      "shop-1",
			TotalAmount: 100 + float64(i),
			Status:      models.OrderStatusCompleted,
			CreatedAt:   time.Now().AddDate(0, 0, -(i + 1)),
			Items: models.OrderItems{{
				ProductID:  "p1",
				Quantity:   1,
				UnitPrice:  100,
				TotalPrice: 100,
			}},
		})
	}
	return orders
}

func shopProduct() models.Product {
	return models.Product{
		ID:            "p1",
		ShopID:        "shop-1",
		Name:          "Coffee",
		Price:         100,
		CostPrice:     60,
		StockQuantity: 10,
		MinStockLevel: 5,
		IsActive:      true,
	}
}

func TestForecastHandlerReturnsForecast(t *testing.T) {
	app := newTestApp(&stubStore{orders: shopOrders(10)}, nil)

	req := httptest.NewRequest("GET", "/ai/forecast?days_ahead=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "shop-1", body["shop_id"])
	assert.Equal(t, "5 days", body["prediction_period"])
	assert.Len(t, body["predictions"], 5)
}

func TestForecastHandlerInsufficientData(t *testing.T) {
	app := newTestApp(&stubStore{orders: shopOrders(3)}, nil)

	req := httptest.NewRequest("GET", "/ai/forecast", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(7), body["minimum_required"])
	assert.Equal(t, float64(3), body["current_data_points"])
	assert.NotEmpty(t, body["error"])
}

func TestStockOptimizationHandlerNoProducts(t *testing.T) {
	app := newTestApp(&stubStore{}, nil)

	req := httptest.NewRequest("GET", "/ai/stock-optimization", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "shop-1", body["shop_id"])
}

func TestRecommendationsHandlerEmptyBody(t *testing.T) {
	app := newTestApp(&stubStore{products: []models.Product{shopProduct()}}, nil)

	// No body at all must behave like an empty request.
	req := httptest.NewRequest("POST", "/ai/recommendations", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	recs, ok := body["recommendations"].(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, recs["trending_products"])
}

func TestRecommendationsHandlerWithCart(t *testing.T) {
	app := newTestApp(&stubStore{
		products: []models.Product{shopProduct()},
		orders:   shopOrders(3),
	}, nil)

	payload := strings.NewReader(`{"customer_id":"cust-1","current_cart":["p1"]}`)
	req := httptest.NewRequest("POST", "/ai/recommendations", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "cust-1", body["customer_id"])
}

func TestPricingHandlerUnknownProduct(t *testing.T) {
	app := newTestApp(&stubStore{products: []models.Product{shopProduct()}}, nil)

	req := httptest.NewRequest("GET", "/ai/pricing?product_id=nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "nope", body["product_id"])
}

func TestPerformanceHandlerDefaults(t *testing.T) {
	app := newTestApp(&stubStore{
		products: []models.Product{shopProduct()},
		orders:   shopOrders(2),
	}, nil)

	req := httptest.NewRequest("GET", "/ai/performance", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "30 days", body["period"])
}

func TestAssistantHandlerRequiresMessage(t *testing.T) {
	app := newTestApp(&stubStore{}, &stubNarrator{response: "hello"})

	req := httptest.NewRequest("POST", "/ai/assistant", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAssistantHandlerRespondsWithNarration(t *testing.T) {
	app := newTestApp(&stubStore{products: []models.Product{shopProduct()}},
		&stubNarrator{response: "Focus on restocking."})

	payload := strings.NewReader(`{"message":"What should I do today?"}`)
	req := httptest.NewRequest("POST", "/ai/assistant", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Focus on restocking.", body["response"])
}
