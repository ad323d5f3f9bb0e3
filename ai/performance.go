package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"app/models"
	"app/store"
)

const (
	defaultPeriodDays = 30
	maxTopProducts    = 5
	maxUnsoldProducts = 10
)

// fallbackInsights is substituted whenever the narration collaborator fails
// or returns something unparsable.
var fallbackInsights = models.AIInsights{
	Insights: []models.Insight{{
		Title:             "Analysis pending",
		Description:       "AI analysis will be available shortly.",
		RecommendedAction: "Check back later",
	}},
	PerformanceScore: "pending",
	Priorities:       []string{"Data collection"},
}

// AnalyzePerformance aggregates the shop's KPIs over the period and asks the
// narration collaborator for structured insights. A narrator failure degrades
// to a placeholder; it never fails the report.
func (s *Services) AnalyzePerformance(ctx context.Context, shopID string, periodDays int) (*models.PerformanceReport, error) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -periodDays)

	orders, err := s.store.FindOrders(ctx, shopID, store.OrderFilter{
		CreatedAfter:  &startDate,
		CreatedBefore: &endDate,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	products, err := s.store.FindProducts(ctx, shopID, store.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	var totalRevenue float64
	customers := make(map[string]bool)
	daily := make(map[time.Time]float64)
	type perf struct {
		quantity int
		revenue  float64
	}
	performance := make(map[string]perf)

	for _, o := range orders {
		totalRevenue += o.TotalAmount
		if o.CustomerID != nil && *o.CustomerID != "" {
			customers[*o.CustomerID] = true
		}
		daily[dateOnly(o.CreatedAt)] += o.TotalAmount
		for _, item := range o.Items {
			p := performance[item.ProductID]
			p.quantity += item.Quantity
			p.revenue += item.TotalPrice
			performance[item.ProductID] = p
		}
	}

	totalOrders := len(orders)
	uniqueCustomers := len(customers)

	kpis := models.PerformanceKPIs{
		TotalRevenue:    round2(totalRevenue),
		TotalOrders:     totalOrders,
		UniqueCustomers: uniqueCustomers,
		OrdersPerDay:    round2(float64(totalOrders) / float64(periodDays)),
		ActiveProducts:  len(products),
		ProductsSold:    len(performance),
	}
	if totalOrders > 0 {
		kpis.AverageOrderValue = round2(totalRevenue / float64(totalOrders))
	}
	if uniqueCustomers > 0 {
		kpis.RevenuePerCustomer = round2(totalRevenue / float64(uniqueCustomers))
	}

	// Daily revenue trend, chronological.
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	trend := make([]models.DailySalesPoint, 0, len(days))
	for _, d := range days {
		trend = append(trend, models.DailySalesPoint{
			Date:  d.Format("2006-01-02"),
			Sales: round2(daily[d]),
		})
	}

	// Top products by revenue, ties broken by id for a stable ranking.
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	type ranked struct {
		id string
		perf
	}
	rankedProducts := make([]ranked, 0, len(performance))
	for id, p := range performance {
		rankedProducts = append(rankedProducts, ranked{id: id, perf: p})
	}
	sort.Slice(rankedProducts, func(i, j int) bool {
		if rankedProducts[i].revenue != rankedProducts[j].revenue {
			return rankedProducts[i].revenue > rankedProducts[j].revenue
		}
		return rankedProducts[i].id < rankedProducts[j].id
	})
	if len(rankedProducts) > maxTopProducts {
		rankedProducts = rankedProducts[:maxTopProducts]
	}
	top := make([]models.ProductPerformance, 0, len(rankedProducts))
	for _, r := range rankedProducts {
		name := names[r.id]
		if name == "" {
			name = "Unknown"
		}
		top = append(top, models.ProductPerformance{
			ProductID:    r.id,
			ProductName:  name,
			Revenue:      round2(r.revenue),
			QuantitySold: r.quantity,
		})
	}

	// Unsold means an active product absent from the period's line items;
	// sold ids that left the catalog must not skew this count.
	unsold := []models.UnsoldProduct{}
	notSold := 0
	for _, p := range products {
		if _, sold := performance[p.ID]; sold {
			continue
		}
		notSold++
		if len(unsold) == maxUnsoldProducts {
			continue
		}
		unsold = append(unsold, models.UnsoldProduct{
			ProductID:     p.ID,
			ProductName:   p.Name,
			StockQuantity: p.StockQuantity,
			Reason:        "No sales over the period",
		})
	}
	kpis.ProductsNotSold = notSold

	return &models.PerformanceReport{
		ShopID:       shopID,
		Period:       fmt.Sprintf("%d days", periodDays),
		AnalysisDate: endDate.Format(time.RFC3339),
		KPIs:         kpis,
		Trends: models.PerformanceTrends{
			DailySales:              trend,
			BestPerformingProducts:  top,
			UnderperformingProducts: unsold,
		},
		AIInsights: s.performanceInsights(ctx, periodDays, kpis, top),
	}, nil
}

// performanceInsights forwards the numeric summary to the narrator and parses
// its structured response, substituting the placeholder on any failure.
func (s *Services) performanceInsights(ctx context.Context, periodDays int, kpis models.PerformanceKPIs, top []models.ProductPerformance) models.AIInsights {
	if s.narrator == nil {
		return fallbackInsights
	}

	topJSON, err := json.Marshal(top)
	if err != nil {
		return fallbackInsights
	}

	prompt := fmt.Sprintf(`Analyze this shop's performance over %d days and generate key insights:

DATA:
- Total revenue: %.2f
- Order count: %d
- Unique customers: %d
- Average order value: %.2f
- Active products: %d
- Unsold products: %d

TOP PRODUCTS (by revenue):
%s

Provide 3-5 key insights on performance and concrete improvement recommendations.
Respond with a single minified JSON object, no markdown fences, with the structure:
{"insights":[{"title":"...","description":"...","recommended_action":"..."}],"performance_score":"score out of 10","priorities":["action1","action2","action3"]}`,
		periodDays, kpis.TotalRevenue, kpis.TotalOrders, kpis.UniqueCustomers,
		kpis.AverageOrderValue, kpis.ActiveProducts, kpis.ProductsNotSold, string(topJSON))

	raw, err := s.narrator.Generate(ctx, "performance-analysis",
		"You are an expert in retail performance analysis.", prompt)
	if err != nil {
		log.Printf("performance insights unavailable: %v", err)
		return fallbackInsights
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		log.Printf("could not extract JSON from insights response")
		return fallbackInsights
	}
	var insights models.AIInsights
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
		log.Printf("error parsing insights JSON: %v", err)
		return fallbackInsights
	}
	return insights
}
