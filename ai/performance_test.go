package ai

import (
	"context"
	"errors"
	"testing"

	"app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performanceStore() *fakeStore {
	st := &fakeStore{
		products: []models.Product{
			activeProduct("A", "Coffee", 8, 50, 5),
			activeProduct("B", "Tea", 6, 50, 5),
			activeProduct("C", "Cocoa", 7, 50, 5),
		},
	}
	first := orderDaysAgo(10, 200, lineItem("A", 10, 8), lineItem("B", 20, 6))
	first.CustomerID = strPtr("cust-1")
	second := orderDaysAgo(5, 100, lineItem("A", 5, 8), lineItem("B", 10, 6))
	second.CustomerID = strPtr("cust-2")
	st.orders = append(st.orders, first, second)
	return st
}

func TestAnalyzePerformanceKPIs(t *testing.T) {
	svc := NewServices(performanceStore(), nil)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)

	assert.Equal(t, "30 days", report.Period)
	assert.Equal(t, 300.0, report.KPIs.TotalRevenue)
	assert.Equal(t, 2, report.KPIs.TotalOrders)
	assert.Equal(t, 2, report.KPIs.UniqueCustomers)
	assert.Equal(t, 150.0, report.KPIs.AverageOrderValue)
	assert.Equal(t, 150.0, report.KPIs.RevenuePerCustomer)
	assert.Equal(t, 3, report.KPIs.ActiveProducts)
	assert.Equal(t, 2, report.KPIs.ProductsSold)
	assert.Equal(t, 1, report.KPIs.ProductsNotSold)
}

func TestAnalyzePerformanceTrends(t *testing.T) {
	svc := NewServices(performanceStore(), nil)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)

	// Daily points are chronological.
	daily := report.Trends.DailySales
	require.Len(t, daily, 2)
	assert.Less(t, daily[0].Date, daily[1].Date)
	assert.Equal(t, 200.0, daily[0].Sales)

	// Tea earned 180, Coffee 120; ranking is by revenue.
	top := report.Trends.BestPerformingProducts
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].ProductID)
	assert.Equal(t, 180.0, top[0].Revenue)
	assert.Equal(t, 30, top[0].QuantitySold)
	assert.Equal(t, "A", top[1].ProductID)

	unsold := report.Trends.UnderperformingProducts
	require.Len(t, unsold, 1)
	assert.Equal(t, "C", unsold[0].ProductID)
}

func TestAnalyzePerformanceCountsUnsoldWithRetiredProduct(t *testing.T) {
	st := &fakeStore{
		products: []models.Product{
			activeProduct("A", "Coffee", 8, 50, 5),
			activeProduct("B", "Tea", 6, 50, 5),
		},
	}
	// The only sale in the period is for a product since removed from the
	// catalog; both active products are still unsold.
	ghost := orderDaysAgo(5, 40, lineItem("retired", 5, 8))
	st.orders = append(st.orders, ghost)
	svc := NewServices(st, nil)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, report.KPIs.ProductsNotSold)
	assert.Len(t, report.Trends.UnderperformingProducts, 2)

	// The retired product still ranks by revenue, under a placeholder name.
	require.Len(t, report.Trends.BestPerformingProducts, 1)
	assert.Equal(t, "Unknown", report.Trends.BestPerformingProducts[0].ProductName)
}

func TestAnalyzePerformanceDefaultPeriod(t *testing.T) {
	svc := NewServices(performanceStore(), nil)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 0)
	require.NoError(t, err)
	assert.Equal(t, "30 days", report.Period)
}

func TestAnalyzePerformanceParsesInsights(t *testing.T) {
	narrator := &fakeNarrator{response: "```json\n" +
		`{"insights":[{"title":"Solid week","description":"Revenue is stable.","recommended_action":"Restock tea"}],"performance_score":"7/10","priorities":["restock","promote cocoa"]}` +
		"\n```"}
	svc := NewServices(performanceStore(), narrator)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)

	require.Len(t, report.AIInsights.Insights, 1)
	assert.Equal(t, "Solid week", report.AIInsights.Insights[0].Title)
	assert.Equal(t, "7/10", report.AIInsights.PerformanceScore)
	assert.Equal(t, []string{"restock", "promote cocoa"}, report.AIInsights.Priorities)
	assert.Equal(t, "performance-analysis", narrator.lastSession)
}

func TestAnalyzePerformanceFallbackOnGarbage(t *testing.T) {
	narrator := &fakeNarrator{response: "I could not produce any structured output today."}
	svc := NewServices(performanceStore(), narrator)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)
	assert.Equal(t, fallbackInsights, report.AIInsights)
}

func TestAnalyzePerformanceFallbackOnNarratorError(t *testing.T) {
	narrator := &fakeNarrator{err: errors.New("backend unavailable")}
	svc := NewServices(performanceStore(), narrator)

	report, err := svc.AnalyzePerformance(context.Background(), testShop, 30)
	require.NoError(t, err)
	assert.Equal(t, fallbackInsights, report.AIInsights)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`prefix {"a":1} suffix`))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("} reversed {"))
}
