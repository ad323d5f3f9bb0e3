package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"app/models"
	"app/store"
)

const assistantFallback = "Sorry, I am running into a temporary error. Please try again."

// shopContext is the compact snapshot of a shop handed to the assistant as
// grounding for its answers.
type shopContext struct {
	ShopID       string           `json:"shop_id"`
	AnalysisDate string           `json:"analysis_date"`
	Stats        shopStats        `json:"general_statistics"`
	Sales        shopSales        `json:"sales"`
	StockAlerts  []stockAlert     `json:"stock_alerts"`
	TopProducts  []topWeekProduct `json:"top_products_this_week"`
}

type shopStats struct {
	TotalProducts    int `json:"total_products"`
	TotalCustomers   int `json:"total_customers"`
	LowStockProducts int `json:"low_stock_products"`
}

type salesWindow struct {
	Amount     float64 `json:"amount"`
	OrderCount int     `json:"order_count"`
}

type shopSales struct {
	Today    salesWindow `json:"today"`
	ThisWeek salesWindow `json:"this_week"`
}

type stockAlert struct {
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinimumStock int    `json:"minimum_stock"`
}

type topWeekProduct struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
}

// AssistantChat answers a free-text question about the shop. The shop's
// current context is assembled into the system prompt so the collaborator can
// give grounded advice; any failure degrades to a fixed apology string.
func (s *Services) AssistantChat(ctx context.Context, shopID, message, sessionID string) string {
	if sessionID == "" {
		sessionID = "commerce-assistant"
	}
	if s.narrator == nil {
		return assistantFallback
	}

	shopCtx, err := s.buildShopContext(ctx, shopID)
	if err != nil {
		log.Printf("error building shop context for %s: %v", shopID, err)
		return assistantFallback
	}

	contextJSON, err := json.MarshalIndent(shopCtx, "", "  ")
	if err != nil {
		return assistantFallback
	}

	systemPrompt := fmt.Sprintf(`You are an AI assistant and expert in retail management for this shop.
Here is the shop's current data:

SHOP CONTEXT:
%s

You can help with:
- Sales and trend analysis
- Stock optimization advice
- Pricing strategies
- Product recommendations
- Performance analysis
- Profitability advice

Answer clearly, precisely and actionably. Use the data provided to give personalized advice.`, string(contextJSON))

	response, err := s.narrator.Generate(ctx, sessionID, systemPrompt, message)
	if err != nil {
		log.Printf("assistant chat error for shop %s: %v", shopID, err)
		return assistantFallback
	}
	return response
}

func (s *Services) buildShopContext(ctx context.Context, shopID string) (*shopContext, error) {
	now := time.Now()
	today := dateOnly(now)
	weekAgo := today.AddDate(0, 0, -7)

	totalProducts, err := s.store.CountProducts(ctx, shopID, true)
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.store.CountCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}

	weekOrders, err := s.store.FindOrders(ctx, shopID, store.OrderFilter{
		CreatedAfter:  &weekAgo,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	var todaySales, weekSales float64
	var todayCount int
	weekQuantities := make(map[string]int)
	for _, o := range weekOrders {
		weekSales += o.TotalAmount
		if !o.CreatedAt.Before(today) {
			todaySales += o.TotalAmount
			todayCount++
		}
		for _, item := range o.Items {
			weekQuantities[item.ProductID] += item.Quantity
		}
	}

	products, err := s.store.FindProducts(ctx, shopID, store.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	alerts := []stockAlert{}
	lowStock := 0
	for _, p := range products {
		names[p.ID] = p.Name
		if p.StockQuantity <= p.MinStockLevel {
			lowStock++
			if len(alerts) < 5 {
				alerts = append(alerts, stockAlert{
					Name:         p.Name,
					CurrentStock: p.StockQuantity,
					MinimumStock: p.MinStockLevel,
				})
			}
		}
	}

	top := []topWeekProduct{}
	for _, entry := range rankScores(weekQuantities, 5) {
		name := names[entry.id]
		if name == "" {
			name = "Unknown"
		}
		top = append(top, topWeekProduct{
			ProductID:    entry.id,
			ProductName:  name,
			QuantitySold: entry.score,
		})
	}

	return &shopContext{
		ShopID:       shopID,
		AnalysisDate: now.Format(time.RFC3339),
		Stats: shopStats{
			TotalProducts:    totalProducts,
			TotalCustomers:   totalCustomers,
			LowStockProducts: lowStock,
		},
		Sales: shopSales{
			Today:    salesWindow{Amount: round2(todaySales), OrderCount: todayCount},
			ThisWeek: salesWindow{Amount: round2(weekSales), OrderCount: len(weekOrders)},
		},
		StockAlerts: alerts,
		TopProducts: top,
	}, nil
}
