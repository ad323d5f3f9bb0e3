package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"app/models"
	"app/store"
)

const (
	maxPricingProducts   = 100
	maxPricingStrategies = 3
	// targetMarginDivisor turns a cost price into the price that yields a
	// 40% margin (price = cost / 0.6).
	targetMarginDivisor = 0.6
	// minMarginFactor is the floor below which no discount strategy may
	// push the price.
	minMarginFactor = 1.2
)

const pricingFallbackInsight = "Pricing advice will be available once sales data has been analyzed."

// PricingRecommendations produces candidate price adjustments for one product
// or for all active products of the shop (capped). Each product gets at most
// three strategies: margin target, demand driven, psychological.
func (s *Services) PricingRecommendations(ctx context.Context, shopID, productID string) (*models.PricingAdvice, error) {
	products, err := s.store.FindProducts(ctx, shopID, store.ProductFilter{
		ActiveOnly: true,
		ProductID:  productID,
		Limit:      maxPricingProducts,
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		if productID != "" {
			return nil, &ProductNotFoundError{ShopID: shopID, ProductID: productID}
		}
		return nil, &NoActiveProductsError{ShopID: shopID}
	}

	since := time.Now().AddDate(0, 0, -demandWindowDays)
	orders, err := s.store.FindOrders(ctx, shopID, store.OrderFilter{
		CreatedAfter:  &since,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	// Per-product demand over the window: units, line revenue, occurrences.
	type demand struct {
		quantity int
		revenue  float64
		count    int
	}
	demands := make(map[string]demand)
	for _, o := range orders {
		for _, item := range o.Items {
			d := demands[item.ProductID]
			d.quantity += item.Quantity
			d.revenue += item.TotalPrice
			d.count++
			demands[item.ProductID] = d
		}
	}

	recommendations := make([]models.ProductPricing, 0, len(products))
	for _, p := range products {
		d := demands[p.ID]

		margin := 0.0
		if p.Price > 0 {
			margin = (p.Price - p.CostPrice) / p.Price * 100
		}

		strength := "weak"
		if d.quantity > 10 {
			strength = "strong"
		} else if d.quantity > 3 {
			strength = "medium"
		}

		strategies := buildStrategies(p, margin, strength)
		if len(strategies) > maxPricingStrategies {
			strategies = strategies[:maxPricingStrategies]
		}

		recommendations = append(recommendations, models.ProductPricing{
			ProductID:            p.ID,
			ProductName:          p.Name,
			CurrentPrice:         p.Price,
			CostPrice:            p.CostPrice,
			CurrentMarginPercent: round2(margin),
			DemandAnalysis: models.DemandAnalysis{
				QuantitySold30Days: d.quantity,
				Revenue30Days:      round2(d.revenue),
				DemandStrength:     strength,
				SalesFrequency:     d.count,
			},
			Recommendations: strategies,
		})
	}

	return &models.PricingAdvice{
		ShopID:                shopID,
		AnalysisDate:          time.Now().Format(time.RFC3339),
		TotalProductsAnalyzed: len(recommendations),
		Recommendations:       recommendations,
		GlobalPricingInsights: s.pricingInsights(ctx, recommendations),
		Methodology:           "Analysis based on demand, margins and psychological pricing",
	}, nil
}

// buildStrategies generates the candidate price adjustments in a fixed order.
// The cost*1.2 floor guards the discount strategies only; an increase can
// only widen the margin.
func buildStrategies(p models.Product, margin float64, strength string) []models.PricingStrategy {
	strategies := []models.PricingStrategy{}

	if p.CostPrice > 0 {
		target := p.CostPrice / targetMarginDivisor
		if target != p.Price {
			strategies = append(strategies, models.PricingStrategy{
				Strategy:           "margin_target",
				RecommendedPrice:   round2(target),
				CurrentPrice:       p.Price,
				PriceChangePercent: percentChange(p.Price, target),
				Reason:             "Optimal price for a 40% margin",
				ExpectedImpact:     "Improved profitability",
			})
		}
	}

	switch {
	case strength == "strong" && margin < 50:
		strategies = append(strategies, models.PricingStrategy{
			Strategy:           "demand_driven_increase",
			RecommendedPrice:   round2(p.Price * 1.1),
			CurrentPrice:       p.Price,
			PriceChangePercent: 10,
			Reason:             "Strong demand supports a price increase",
			ExpectedImpact:     "Higher revenue at low risk",
		})
	case strength == "weak":
		lower := p.Price * 0.9
		if lower > p.CostPrice*minMarginFactor {
			strategies = append(strategies, models.PricingStrategy{
				Strategy:           "demand_stimulation",
				RecommendedPrice:   round2(lower),
				CurrentPrice:       p.Price,
				PriceChangePercent: -10,
				Reason:             "Discount to stimulate weak demand",
				ExpectedImpact:     "Potential sales volume increase",
			})
		}
	}

	psychological := psychologicalPrice(p.Price)
	if psychological != p.Price && psychological > p.CostPrice*minMarginFactor {
		strategies = append(strategies, models.PricingStrategy{
			Strategy:           "psychological_pricing",
			RecommendedPrice:   psychological,
			CurrentPrice:       p.Price,
			PriceChangePercent: percentChange(p.Price, psychological),
			Reason:             "Psychological price ending in 9",
			ExpectedImpact:     "Improved customer price perception",
		})
	}

	return strategies
}

// percentChange reports the relative change from one price to another. A zero
// starting price yields zero rather than an unserializable infinity.
func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return round2((to - from) / from * 100)
}

// psychologicalPrice finds a price ending in the digit 9 just under the
// current one: shave 1%, round down to the nearest 10, add 9.
func psychologicalPrice(price float64) float64 {
	return math.Floor(price*0.99/10)*10 + 9
}

// pricingInsights asks the narration collaborator for strategic commentary on
// a compact summary of up to five products. Failures fall back to a static
// string; they never fail the request.
func (s *Services) pricingInsights(ctx context.Context, recommendations []models.ProductPricing) string {
	if len(recommendations) == 0 || s.narrator == nil {
		return pricingFallbackInsight
	}

	type productSummary struct {
		Name   string  `json:"name"`
		Price  float64 `json:"current_price"`
		Margin float64 `json:"margin_percent"`
		Demand string  `json:"demand"`
	}
	summaries := make([]productSummary, 0, 5)
	for _, r := range recommendations {
		if len(summaries) == 5 {
			break
		}
		summaries = append(summaries, productSummary{
			Name:   r.ProductName,
			Price:  r.CurrentPrice,
			Margin: r.CurrentMarginPercent,
			Demand: r.DemandAnalysis.DemandStrength,
		})
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return pricingFallbackInsight
	}

	prompt := fmt.Sprintf(`Analyze the pricing strategy for %d products and give advice:

PRODUCT DATA:
%s

Provide 3 concrete, actionable strategic pricing tips to optimize overall profitability.`,
		len(recommendations), string(data))

	insights, err := s.narrator.Generate(ctx, "pricing-strategy",
		"You are an expert in pricing strategy for retail businesses.", prompt)
	if err != nil {
		log.Printf("pricing insights unavailable: %v", err)
		return pricingFallbackInsight
	}
	return insights
}
