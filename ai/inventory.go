package ai

import (
	"context"
	"math"
	"sort"
	"time"

	"app/models"
	"app/store"
)

const (
	demandWindowDays = 30
	// coverage targets for reorder sizing: two weeks of demand plus a
	// three-day safety buffer.
	coverageDays   = 14
	safetyDays     = 3
	maxStockReturn = 20
)

var priorityRank = map[string]int{
	"urgent": 1,
	"high":   2,
	"normal": 3,
	"low":    4,
}

// OptimizeStockLevels produces reorder recommendations for every active
// product of the shop, classified by urgency. The summary and monetary totals
// always cover the full analyzed set; only the returned recommendation list
// is truncated for presentation.
func (s *Services) OptimizeStockLevels(ctx context.Context, shopID string) (*models.StockOptimization, error) {
	products, err := s.store.FindProducts(ctx, shopID, store.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
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

	// One pass over the window: units sold and distinct sale dates per product.
	sold := make(map[string]int)
	saleDays := make(map[string]map[time.Time]struct{})
	for _, o := range orders {
		day := dateOnly(o.CreatedAt)
		for _, item := range o.Items {
			sold[item.ProductID] += item.Quantity
			if saleDays[item.ProductID] == nil {
				saleDays[item.ProductID] = make(map[time.Time]struct{})
			}
			saleDays[item.ProductID][day] = struct{}{}
		}
	}

	recommendations := make([]models.StockRecommendation, 0, len(products))
	for _, p := range products {
		totalSold := sold[p.ID]
		avgDailyDemand := float64(totalSold) / demandWindowDays
		salesFrequency := float64(len(saleDays[p.ID])) / demandWindowDays

		daysOfStock := models.UnboundedDays()
		if avgDailyDemand > 0 {
			daysOfStock = models.FiniteDays(float64(p.StockQuantity) / avgDailyDemand)
		}

		var priority, status string
		switch {
		case p.StockQuantity <= p.MinStockLevel:
			priority, status = "urgent", "critical"
		case daysOfStock.LessThan(7):
			priority, status = "high", "low"
		case daysOfStock.GreaterThan(30):
			priority, status = "low", "overstock"
		default:
			priority, status = "normal", "optimal"
		}

		var recommendedStock int
		if avgDailyDemand > 0 {
			recommendedStock = int(math.Round(avgDailyDemand*coverageDays + avgDailyDemand*safetyDays))
		} else {
			recommendedStock = p.MinStockLevel
		}
		reorderQuantity := maxInt(0, recommendedStock-p.StockQuantity)

		recommendations = append(recommendations, models.StockRecommendation{
			ProductID:        p.ID,
			ProductName:      p.Name,
			SKU:              p.SKU,
			Price:            p.Price,
			CurrentStock:     p.StockQuantity,
			MinLevel:         p.MinStockLevel,
			TotalSold30Days:  totalSold,
			AvgDailyDemand:   round2(avgDailyDemand),
			DaysOfStock:      daysOfStock,
			SalesFrequency:   round2(salesFrequency),
			Status:           status,
			Priority:         priority,
			RecommendedStock: recommendedStock,
			ReorderQuantity:  reorderQuantity,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return priorityRank[recommendations[i].Priority] < priorityRank[recommendations[j].Priority]
	})

	// Aggregates are over the full set, never the truncated slice.
	var summary models.StockSummary
	var urgent int
	var totalReorderValue float64
	for _, r := range recommendations {
		switch r.Status {
		case "critical":
			summary.Critical++
		case "low":
			summary.Low++
		case "optimal":
			summary.Optimal++
		case "overstock":
			summary.Overstock++
		}
		if r.Priority == "urgent" {
			urgent++
		}
		totalReorderValue += float64(r.ReorderQuantity) * r.Price
	}

	top := recommendations
	if len(top) > maxStockReturn {
		top = top[:maxStockReturn]
	}

	return &models.StockOptimization{
		ShopID:                shopID,
		AnalysisDate:          time.Now().Format(time.RFC3339),
		TotalProductsAnalyzed: len(products),
		UrgentReorders:        urgent,
		TotalReorderValue:     round2(totalReorderValue),
		Recommendations:       top,
		Summary:               summary,
	}, nil
}
